package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/vicharak/vicharak-api/internal/authz"
	"github.com/vicharak/vicharak-api/internal/constants"
	"github.com/vicharak/vicharak-api/internal/database"
	"github.com/vicharak/vicharak-api/internal/dto"
	"github.com/vicharak/vicharak-api/internal/models"
	"github.com/vicharak/vicharak-api/internal/repository"
	"github.com/vicharak/vicharak-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type vicharTestEnv struct {
	db                  *gorm.DB
	handler             *VicharHandler
	collaboratorService *services.CollaboratorService
}

func setupVicharTestEnv(t *testing.T) vicharTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Vichar{},
		&models.Collaborator{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	vicharRepo := repository.NewVicharRepository(db)
	collaboratorRepo := repository.NewCollaboratorRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	userRepo := repository.NewUserRepository(db)
	resolver := authz.NewResolver(collaboratorRepo)

	vicharService := services.NewVicharService(vicharRepo, resolver)
	collaboratorService := services.NewCollaboratorService(collaboratorRepo, vicharRepo, roleRepo, userRepo, resolver)
	handler := NewVicharHandler(vicharService, collaboratorService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return vicharTestEnv{
		db:                  db,
		handler:             handler,
		collaboratorService: collaboratorService,
	}
}

func (env vicharTestEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "hashed"}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env vicharTestEnv) createVichar(t *testing.T, ownerID uint64, title string) *models.Vichar {
	t.Helper()
	vichar := &models.Vichar{UserID: ownerID, Title: title, Body: "Body"}
	require.NoError(t, env.db.Create(vichar).Error)
	return vichar
}

func authedContext(w *httptest.ResponseRecorder, userID uint64) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyUserID, userID)
	return c
}

func TestVicharHandler_CreateVichar(t *testing.T) {
	env := setupVicharTestEnv(t)
	owner := env.createUser(t, "owner")

	body, err := json.Marshal(map[string]string{
		"title": "Distributed consensus",
		"body":  "Notes on raft",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c := authedContext(w, owner.ID)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/vichars", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	env.handler.CreateVichar(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.VicharDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Distributed consensus", response.Title)
	require.Equal(t, owner.ID, response.UserID)
	require.Nil(t, response.UpdatedAt)
	require.Nil(t, response.DeletedAt)
}

func TestVicharHandler_CreateVichar_MissingTitle(t *testing.T) {
	env := setupVicharTestEnv(t)
	owner := env.createUser(t, "owner")

	body, err := json.Marshal(map[string]string{"body": "no title"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c := authedContext(w, owner.ID)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/vichars", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	env.handler.CreateVichar(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVicharHandler_GetVichar_WithCollaborators(t *testing.T) {
	env := setupVicharTestEnv(t)
	owner := env.createUser(t, "owner")
	member := env.createUser(t, "member")
	vichar := env.createVichar(t, owner.ID, "Shared idea")

	role := &models.Role{
		Name:        "viewer",
		Permissions: models.PermissionList{models.PermissionViewVichar},
	}
	require.NoError(t, env.db.Create(role).Error)

	_, err := env.collaboratorService.AddCollaborator(services.AddCollaboratorInput{
		VicharID:       vichar.ID,
		ActorID:        owner.ID,
		CollaboratorID: member.ID,
		RoleID:         role.ID,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c := authedContext(w, owner.ID)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/vichars/"+strconv.FormatUint(vichar.ID, 10), nil)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(vichar.ID, 10)}}

	env.handler.GetVichar(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.VicharDetailDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Shared idea", response.Title)
	require.Len(t, response.Collaborators, 1)
	require.Equal(t, member.ID, response.Collaborators[0].Collaborator.ID)
	require.Contains(t, response.Collaborators[0].Permissions, models.PermissionViewVichar)
}

func TestVicharHandler_GetVichar_StrangerGetsNotFound(t *testing.T) {
	env := setupVicharTestEnv(t)
	owner := env.createUser(t, "owner")
	stranger := env.createUser(t, "stranger")
	vichar := env.createVichar(t, owner.ID, "Private idea")

	w := httptest.NewRecorder()
	c := authedContext(w, stranger.ID)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/vichars/"+strconv.FormatUint(vichar.ID, 10), nil)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(vichar.ID, 10)}}

	env.handler.GetVichar(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestVicharHandler_DeleteAndRestore(t *testing.T) {
	env := setupVicharTestEnv(t)
	owner := env.createUser(t, "owner")
	vichar := env.createVichar(t, owner.ID, "Ephemeral idea")
	idParam := gin.Params{{Key: "id", Value: strconv.FormatUint(vichar.ID, 10)}}

	w := httptest.NewRecorder()
	c := authedContext(w, owner.ID)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/vichars/1", nil)
	c.Params = idParam

	env.handler.DeleteVichar(c)
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Vichar
	require.NoError(t, env.db.First(&stored, vichar.ID).Error)
	require.NotNil(t, stored.DeletedAt)

	w = httptest.NewRecorder()
	c = authedContext(w, owner.ID)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/vichars/1/restore", nil)
	c.Params = idParam

	env.handler.RestoreVichar(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.VicharDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Nil(t, response.DeletedAt)
}

func TestVicharHandler_Restore_ActiveVicharNotFound(t *testing.T) {
	env := setupVicharTestEnv(t)
	owner := env.createUser(t, "owner")
	vichar := env.createVichar(t, owner.ID, "Still active")

	w := httptest.NewRecorder()
	c := authedContext(w, owner.ID)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/vichars/1/restore", nil)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(vichar.ID, 10)}}

	env.handler.RestoreVichar(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestVicharHandler_Delete_PermissionDenied(t *testing.T) {
	env := setupVicharTestEnv(t)
	owner := env.createUser(t, "owner")
	member := env.createUser(t, "member")
	vichar := env.createVichar(t, owner.ID, "Protected idea")

	role := &models.Role{
		Name:        "viewer",
		Permissions: models.PermissionList{models.PermissionViewVichar},
	}
	require.NoError(t, env.db.Create(role).Error)

	_, err := env.collaboratorService.AddCollaborator(services.AddCollaboratorInput{
		VicharID:       vichar.ID,
		ActorID:        owner.ID,
		CollaboratorID: member.ID,
		RoleID:         role.ID,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c := authedContext(w, member.ID)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/vichars/1", nil)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(vichar.ID, 10)}}

	env.handler.DeleteVichar(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestVicharHandler_ListVichars_Search(t *testing.T) {
	env := setupVicharTestEnv(t)
	owner := env.createUser(t, "owner")
	env.createVichar(t, owner.ID, "Raft notes")
	env.createVichar(t, owner.ID, "Paxos notes")
	env.createVichar(t, owner.ID, "Shopping list")

	w := httptest.NewRecorder()
	c := authedContext(w, owner.ID)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/vichars?search=notes", nil)

	env.handler.ListVichars(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Vichars []dto.VicharDTO `json:"vichars"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Vichars, 2)
}

func TestVicharHandler_InvalidID(t *testing.T) {
	env := setupVicharTestEnv(t)
	owner := env.createUser(t, "owner")

	w := httptest.NewRecorder()
	c := authedContext(w, owner.ID)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/vichars/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	env.handler.GetVichar(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
