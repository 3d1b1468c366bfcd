package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Book struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Author        string             `bson:"author" json:"author"`
	Publisher     string             `bson:"publisher" json:"publisher"`
	Tags          []string           `bson:"tags" json:"tags"`
	PublishedYear int                `bson:"published_year" json:"published_year"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

const (
	BookEntity = "book"
)
