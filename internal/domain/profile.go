package domain

import "time"

// RelationshipStatus segmenta al usuario segun su situacion sentimental.
type RelationshipStatus string

const (
	RelationshipSingleCareerFocused RelationshipStatus = "single_career_focused"
	RelationshipSingleLooking       RelationshipStatus = "single_looking"
	RelationshipDating              RelationshipStatus = "dating"
	RelationshipEarlyRelationship   RelationshipStatus = "early_relationship"
	RelationshipCommitted           RelationshipStatus = "committed"
	RelationshipEngaged             RelationshipStatus = "engaged"
	RelationshipMarried             RelationshipStatus = "married"
	RelationshipComplicated         RelationshipStatus = "its_complicated"
)

type Location struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// UserProfile es de solo lectura para el motor de outlooks; lo administra el sistema de cuentas.
type UserProfile struct {
	ID                 string             `json:"id"`
	Email              string             `json:"email"`
	FirstName          string             `json:"first_name,omitempty"`
	Location           Location           `json:"location"`
	RelationshipStatus RelationshipStatus `json:"relationship_status"`
	Tier               Tier               `json:"tier"`
	SignupAt           time.Time          `json:"signup_at"`
	LastActiveAt       *time.Time         `json:"last_active_at,omitempty"`
}
