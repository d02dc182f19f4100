package database

import (
	"gorm.io/gorm"
)

type Database struct {
	fontRepo        *FontRepo
	projectRepo     *ProjectRepo
	associationRepo *AssociationRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		fontRepo:        NewFontRepo(db),
		projectRepo:     NewProjectRepo(db),
		associationRepo: NewAssociationRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) FontRepo() *FontRepo {
	return d.fontRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) AssociationRepo() *AssociationRepo {
	return d.associationRepo
}
