package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/narwhalmedia/reelscout/pkg/errors"
	"github.com/narwhalmedia/reelscout/pkg/repository"
)

type note struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Body      string
	Slug      *string `gorm:"uniqueIndex"`
	UpdatedAt time.Time
}

type RepositoryTestSuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (suite *RepositoryTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	suite.Require().NoError(err)
	sqlDB, err := db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	suite.Require().NoError(db.AutoMigrate(&note{}))
	suite.T().Cleanup(func() { _ = sqlDB.Close() })

	suite.db = db
	suite.ctx = context.Background()
}

func (suite *RepositoryTestSuite) TestSaveAndFind() {
	// Arrange
	n := &note{ID: uuid.New(), Body: "first"}

	// Act
	suite.Require().NoError(repository.Save(suite.ctx, suite.db, n))
	n.Body = "edited"
	suite.Require().NoError(repository.Save(suite.ctx, suite.db, n))
	found, err := repository.FindByID[note](suite.ctx, suite.db, n.ID, "note not found")

	// Assert
	suite.Require().NoError(err)
	suite.Equal("edited", found.Body)
	count, err := repository.Count[note](suite.ctx, suite.db)
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)
}

func (suite *RepositoryTestSuite) TestFindByID_NotFound() {
	_, err := repository.FindByID[note](suite.ctx, suite.db, uuid.New(), "note not found")

	suite.True(errors.IsNotFound(err))
	suite.Equal("note not found", errors.Display(err))
}

func (suite *RepositoryTestSuite) TestFindFirst() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.Require().NoError(suite.db.Create(&note{ID: uuid.New(), Body: "old", UpdatedAt: base}).Error)
	suite.Require().NoError(suite.db.Create(&note{ID: uuid.New(), Body: "new", UpdatedAt: base.Add(time.Hour)}).Error)

	found, err := repository.FindFirst[note](suite.ctx, suite.db, "updated_at DESC", "empty")

	suite.Require().NoError(err)
	suite.Equal("new", found.Body)
}

func (suite *RepositoryTestSuite) TestFindFirst_Empty() {
	_, err := repository.FindFirst[note](suite.ctx, suite.db, "updated_at DESC", "empty")

	suite.True(errors.IsNotFound(err))
}

func (suite *RepositoryTestSuite) TestUpdateColumnAndDelete() {
	id := uuid.New()
	suite.Require().NoError(suite.db.Create(&note{ID: id, Body: "a"}).Error)

	suite.Require().NoError(repository.UpdateColumn[note](suite.ctx, suite.db, id, "body", "b", "missing"))
	found, err := repository.FindByID[note](suite.ctx, suite.db, id, "missing")
	suite.Require().NoError(err)
	suite.Equal("b", found.Body)

	suite.Require().NoError(repository.Delete[note](suite.ctx, suite.db, id, "missing"))
	suite.True(errors.IsNotFound(repository.Delete[note](suite.ctx, suite.db, id, "missing")))
	suite.True(errors.IsNotFound(repository.UpdateColumn[note](suite.ctx, suite.db, id, "body", "c", "missing")))
}

func (suite *RepositoryTestSuite) TestSave_UniqueViolationIsConflict() {
	// Arrange
	slug := "dune"
	suite.Require().NoError(repository.Save(suite.ctx, suite.db, &note{ID: uuid.New(), Slug: &slug}))

	// Act
	err := repository.Save(suite.ctx, suite.db, &note{ID: uuid.New(), Slug: &slug})

	// Assert
	suite.True(errors.IsConflict(err))
}
