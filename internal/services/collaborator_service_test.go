package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vicharak/vicharak-api/internal/authz"
	"github.com/vicharak/vicharak-api/internal/models"
	"github.com/vicharak/vicharak-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type CollaboratorServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *CollaboratorService
}

func (suite *CollaboratorServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Vichar{},
		&models.Collaborator{},
	)
	suite.Require().NoError(err)

	collaboratorRepo := repository.NewCollaboratorRepository(suite.db)
	vicharRepo := repository.NewVicharRepository(suite.db)
	roleRepo := repository.NewRoleRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	resolver := authz.NewResolver(collaboratorRepo)

	suite.service = NewCollaboratorService(collaboratorRepo, vicharRepo, roleRepo, userRepo, resolver)
}

func (suite *CollaboratorServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *CollaboratorServiceTestSuite) createUser(username string) *models.User {
	user := &models.User{Username: username, PasswordHash: "hashed"}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *CollaboratorServiceTestSuite) createVichar(ownerID uint64) *models.Vichar {
	vichar := &models.Vichar{UserID: ownerID, Title: "Idea", Body: "Body"}
	suite.Require().NoError(suite.db.Create(vichar).Error)
	return vichar
}

func (suite *CollaboratorServiceTestSuite) createRole(name string, permissions ...models.Permission) *models.Role {
	role := &models.Role{Name: name, Permissions: models.PermissionList(permissions)}
	suite.Require().NoError(suite.db.Create(role).Error)
	return role
}

func (suite *CollaboratorServiceTestSuite) TestAddCollaborator_Success() {
	owner := suite.createUser("owner")
	target := suite.createUser("target")
	vichar := suite.createVichar(owner.ID)
	role := suite.createRole("viewer", models.PermissionViewVichar)

	collaborator, err := suite.service.AddCollaborator(AddCollaboratorInput{
		VicharID:       vichar.ID,
		ActorID:        owner.ID,
		CollaboratorID: target.ID,
		RoleID:         role.ID,
	})
	suite.Require().NoError(err)
	suite.Equal(owner.ID, collaborator.OwnerID)
	suite.Equal(target.ID, collaborator.CollaboratorID)
	suite.Require().NotNil(collaborator.Role)
	suite.Equal(role.ID, collaborator.Role.ID)
}

func (suite *CollaboratorServiceTestSuite) TestAddCollaborator_OwnerCannotBeCollaborator() {
	owner := suite.createUser("owner")
	vichar := suite.createVichar(owner.ID)
	role := suite.createRole("viewer", models.PermissionViewVichar)

	_, err := suite.service.AddCollaborator(AddCollaboratorInput{
		VicharID:       vichar.ID,
		ActorID:        owner.ID,
		CollaboratorID: owner.ID,
		RoleID:         role.ID,
	})
	suite.ErrorIs(err, ErrOwnerCannotCollaborate)
}

func (suite *CollaboratorServiceTestSuite) TestAddCollaborator_DuplicateRejected() {
	owner := suite.createUser("owner")
	target := suite.createUser("target")
	vichar := suite.createVichar(owner.ID)
	role := suite.createRole("viewer", models.PermissionViewVichar)

	input := AddCollaboratorInput{
		VicharID:       vichar.ID,
		ActorID:        owner.ID,
		CollaboratorID: target.ID,
		RoleID:         role.ID,
	}

	_, err := suite.service.AddCollaborator(input)
	suite.Require().NoError(err)

	_, err = suite.service.AddCollaborator(input)
	suite.ErrorIs(err, ErrCollaboratorExists)
}

func (suite *CollaboratorServiceTestSuite) TestAddCollaborator_UniqueIndexClosesRace() {
	owner := suite.createUser("owner")
	target := suite.createUser("target")
	vichar := suite.createVichar(owner.ID)

	// A row slipping in between the pre-check and the insert must still be
	// rejected by the storage-level constraint.
	err := suite.db.Create(&models.Collaborator{
		VicharID:       vichar.ID,
		OwnerID:        owner.ID,
		CollaboratorID: target.ID,
	}).Error
	suite.Require().NoError(err)

	err = suite.db.Create(&models.Collaborator{
		VicharID:       vichar.ID,
		OwnerID:        owner.ID,
		CollaboratorID: target.ID,
	}).Error
	suite.ErrorIs(err, gorm.ErrDuplicatedKey)
}

func (suite *CollaboratorServiceTestSuite) TestAddCollaborator_DelegatedPermission() {
	owner := suite.createUser("owner")
	manager := suite.createUser("manager")
	target := suite.createUser("target")
	vichar := suite.createVichar(owner.ID)
	managerRole := suite.createRole("manager", models.PermissionAddCollaborator)
	viewerRole := suite.createRole("viewer", models.PermissionViewVichar)

	_, err := suite.service.AddCollaborator(AddCollaboratorInput{
		VicharID:       vichar.ID,
		ActorID:        owner.ID,
		CollaboratorID: manager.ID,
		RoleID:         managerRole.ID,
	})
	suite.Require().NoError(err)

	collaborator, err := suite.service.AddCollaborator(AddCollaboratorInput{
		VicharID:       vichar.ID,
		ActorID:        manager.ID,
		CollaboratorID: target.ID,
		RoleID:         viewerRole.ID,
	})
	suite.Require().NoError(err)

	// The owner snapshot records the vichar's owner, not the granting actor.
	suite.Equal(owner.ID, collaborator.OwnerID)
}

func (suite *CollaboratorServiceTestSuite) TestAddCollaborator_PermissionDenied() {
	owner := suite.createUser("owner")
	viewer := suite.createUser("viewer")
	target := suite.createUser("target")
	vichar := suite.createVichar(owner.ID)
	viewerRole := suite.createRole("viewer", models.PermissionViewVichar)

	_, err := suite.service.AddCollaborator(AddCollaboratorInput{
		VicharID:       vichar.ID,
		ActorID:        owner.ID,
		CollaboratorID: viewer.ID,
		RoleID:         viewerRole.ID,
	})
	suite.Require().NoError(err)

	_, err = suite.service.AddCollaborator(AddCollaboratorInput{
		VicharID:       vichar.ID,
		ActorID:        viewer.ID,
		CollaboratorID: target.ID,
		RoleID:         viewerRole.ID,
	})
	suite.ErrorIs(err, ErrVicharPermissionDenied)
}

func (suite *CollaboratorServiceTestSuite) TestAddCollaborator_UnknownTargets() {
	owner := suite.createUser("owner")
	vichar := suite.createVichar(owner.ID)
	role := suite.createRole("viewer", models.PermissionViewVichar)

	_, err := suite.service.AddCollaborator(AddCollaboratorInput{
		VicharID:       vichar.ID,
		ActorID:        owner.ID,
		CollaboratorID: 9999,
		RoleID:         role.ID,
	})
	suite.ErrorIs(err, ErrTargetUserNotFound)

	target := suite.createUser("target")
	_, err = suite.service.AddCollaborator(AddCollaboratorInput{
		VicharID:       vichar.ID,
		ActorID:        owner.ID,
		CollaboratorID: target.ID,
		RoleID:         9999,
	})
	suite.ErrorIs(err, ErrRoleNotFound)
}

func (suite *CollaboratorServiceTestSuite) TestUpdateCollaboratorRole() {
	owner := suite.createUser("owner")
	target := suite.createUser("target")
	vichar := suite.createVichar(owner.ID)
	viewerRole := suite.createRole("viewer", models.PermissionViewVichar)
	editorRole := suite.createRole("editor", models.PermissionViewVichar, models.PermissionEditVichar)

	_, err := suite.service.UpdateCollaboratorRole(vichar.ID, target.ID, editorRole.ID)
	suite.ErrorIs(err, ErrCollaboratorNotFound)

	_, err = suite.service.AddCollaborator(AddCollaboratorInput{
		VicharID:       vichar.ID,
		ActorID:        owner.ID,
		CollaboratorID: target.ID,
		RoleID:         viewerRole.ID,
	})
	suite.Require().NoError(err)

	updated, err := suite.service.UpdateCollaboratorRole(vichar.ID, target.ID, editorRole.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(updated.Role)
	suite.Equal(editorRole.ID, updated.Role.ID)
}

func (suite *CollaboratorServiceTestSuite) TestRemoveCollaborator() {
	owner := suite.createUser("owner")
	target := suite.createUser("target")
	stranger := suite.createUser("stranger")
	vichar := suite.createVichar(owner.ID)
	role := suite.createRole("viewer", models.PermissionViewVichar)

	err := suite.service.RemoveCollaborator(vichar.ID, owner.ID, target.ID)
	suite.ErrorIs(err, ErrCollaboratorNotFound)

	_, err = suite.service.AddCollaborator(AddCollaboratorInput{
		VicharID:       vichar.ID,
		ActorID:        owner.ID,
		CollaboratorID: target.ID,
		RoleID:         role.ID,
	})
	suite.Require().NoError(err)

	err = suite.service.RemoveCollaborator(vichar.ID, stranger.ID, target.ID)
	suite.ErrorIs(err, ErrVicharPermissionDenied)

	err = suite.service.RemoveCollaborator(vichar.ID, owner.ID, target.ID)
	suite.Require().NoError(err)

	var count int64
	suite.db.Model(&models.Collaborator{}).Where("vichar_id = ?", vichar.ID).Count(&count)
	suite.EqualValues(0, count)
}

func (suite *CollaboratorServiceTestSuite) TestListCollaborators_Visibility() {
	owner := suite.createUser("owner")
	viewer := suite.createUser("viewer")
	auditor := suite.createUser("auditor")
	vichar := suite.createVichar(owner.ID)
	viewerRole := suite.createRole("viewer", models.PermissionViewVichar)
	auditorRole := suite.createRole("auditor", models.PermissionViewCollaborators)

	for userID, roleID := range map[uint64]uint64{viewer.ID: viewerRole.ID, auditor.ID: auditorRole.ID} {
		_, err := suite.service.AddCollaborator(AddCollaboratorInput{
			VicharID:       vichar.ID,
			ActorID:        owner.ID,
			CollaboratorID: userID,
			RoleID:         roleID,
		})
		suite.Require().NoError(err)
	}

	collaborators, err := suite.service.ListCollaborators(vichar.ID, owner.ID)
	suite.Require().NoError(err)
	suite.Len(collaborators, 2)

	collaborators, err = suite.service.ListCollaborators(vichar.ID, auditor.ID)
	suite.Require().NoError(err)
	suite.Len(collaborators, 2)

	// A collaborator without VIEW_COLLABORATORS gets an empty list, not an error.
	collaborators, err = suite.service.ListCollaborators(vichar.ID, viewer.ID)
	suite.Require().NoError(err)
	suite.Empty(collaborators)

	stranger := suite.createUser("stranger")
	_, err = suite.service.ListCollaborators(vichar.ID, stranger.ID)
	suite.ErrorIs(err, ErrVicharNotFound)
}

func TestCollaboratorServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CollaboratorServiceTestSuite))
}
