package models

import (
	"regexp"
	"time"
)

const DefaultProjectColor = "#8B5CF6"

var hexColorRegexp = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func IsHexColor(s string) bool {
	return hexColorRegexp.MatchString(s)
}

type Project struct {
	ID          string    `bson:"id" db:"id"`
	Name        string    `bson:"name" db:"name"`
	Description string    `bson:"description" db:"description"`
	Color       string    `bson:"color" db:"color"`
	CreatedAt   time.Time `bson:"created_at" db:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" db:"updated_at"`
}

type ProjectCreate struct {
	Name        string
	Description *string
	Color       *string
}

type ProjectUpdate struct {
	Name        *string
	Description *string
	Color       *string
}

func (u ProjectUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Color == nil
}

func (u ProjectUpdate) Fields() map[string]any {
	fields := make(map[string]any)
	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.Color != nil {
		fields["color"] = *u.Color
	}
	return fields
}
