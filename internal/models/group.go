package models

import "time"

// Group represents a discussion group. CreatedBy is nullable: deleting the
// creating user keeps the group alive with created_by set to NULL.
type Group struct {
	ID          int       `db:"id" json:"id"`
	GroupName   string    `db:"group_name" json:"group_name"`
	Description string    `db:"description" json:"description"`
	CreatedBy   *int      `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// GroupSummary is the list shape with the member count attached.
type GroupSummary struct {
	Group
	MemberCount int `db:"member_count" json:"member_count"`
}

// GroupMember is a row of the membership join, enriched with the username.
type GroupMember struct {
	UserID   int    `db:"user_id" json:"user_id"`
	Username string `db:"username" json:"username"`
}
