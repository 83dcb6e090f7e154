package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"fantasy-book-hub/internal/models"
)

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrDuplicateGroup = errors.New("group name already taken")
	ErrAlreadyMember  = errors.New("user is already a member")
	ErrNotMember      = errors.New("user is not a member")
)

// GroupRepository abstracts group and membership persistence.
type GroupRepository interface {
	CreateGroup(ctx context.Context, createdBy int, name, description string) (models.Group, error)
	ListGroups(ctx context.Context) ([]models.GroupSummary, error)
	GetGroup(ctx context.Context, groupID int) (models.Group, error)
	UpdateGroup(ctx context.Context, groupID int, name, description *string) (models.Group, error)
	DeleteGroup(ctx context.Context, groupID int) error
	IsCreator(ctx context.Context, groupID int, userID int) (bool, error)
	IsMember(ctx context.Context, groupID int, userID int) (bool, error)
	AddMember(ctx context.Context, groupID int, userID int) error
	RemoveMember(ctx context.Context, groupID int, userID int) error
	ListMembers(ctx context.Context, groupID int) ([]models.GroupMember, error)
}

// GroupRepo is a sqlx implementation of GroupRepository.
type GroupRepo struct {
	db *sqlx.DB
}

// NewGroupRepo constructs a GroupRepo.
func NewGroupRepo(db *sqlx.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

// CreateGroup inserts a group. The creator is recorded on the group row only;
// creators are not automatically members.
func (r *GroupRepo) CreateGroup(ctx context.Context, createdBy int, name, description string) (models.Group, error) {
	var group models.Group
	err := r.db.GetContext(ctx, &group,
		`INSERT INTO groups (group_name, description, created_by)
         VALUES ($1, $2, $3)
         RETURNING id, group_name, description, created_by, created_at`,
		name, description, createdBy)
	if isUniqueViolation(err) {
		return models.Group{}, ErrDuplicateGroup
	}
	return group, err
}

// ListGroups returns all groups with their member counts, newest first.
func (r *GroupRepo) ListGroups(ctx context.Context) ([]models.GroupSummary, error) {
	var groups []models.GroupSummary
	err := r.db.SelectContext(ctx, &groups,
		`SELECT g.id, g.group_name, g.description, g.created_by, g.created_at,
                COUNT(gm.user_id) AS member_count
         FROM groups g
         LEFT JOIN group_members gm ON gm.group_id = g.id
         GROUP BY g.id
         ORDER BY g.created_at DESC`)
	return groups, err
}

// GetGroup fetches a single group.
func (r *GroupRepo) GetGroup(ctx context.Context, groupID int) (models.Group, error) {
	var group models.Group
	err := r.db.GetContext(ctx, &group,
		`SELECT id, group_name, description, created_by, created_at FROM groups WHERE id=$1`, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, ErrGroupNotFound
	}
	return group, err
}

// UpdateGroup applies the non-nil fields to the group.
func (r *GroupRepo) UpdateGroup(ctx context.Context, groupID int, name, description *string) (models.Group, error) {
	var group models.Group
	err := r.db.GetContext(ctx, &group,
		`UPDATE groups
         SET group_name = COALESCE($2, group_name),
             description = COALESCE($3, description)
         WHERE id=$1
         RETURNING id, group_name, description, created_by, created_at`,
		groupID, name, description)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, ErrGroupNotFound
	}
	if isUniqueViolation(err) {
		return models.Group{}, ErrDuplicateGroup
	}
	return group, err
}

// DeleteGroup removes the group; discussions and messages cascade.
func (r *GroupRepo) DeleteGroup(ctx context.Context, groupID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id=$1`, groupID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrGroupNotFound
	}
	return nil
}

// IsCreator reports whether the user is recorded as the group's creator.
// False for a missing group or a nulled-out creator.
func (r *GroupRepo) IsCreator(ctx context.Context, groupID int, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM groups WHERE id=$1 AND created_by=$2)`, groupID, userID)
	return exists, err
}

// IsMember checks membership. False for a missing group or user.
func (r *GroupRepo) IsMember(ctx context.Context, groupID int, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id=$1 AND user_id=$2)`, groupID, userID)
	return exists, err
}

// AddMember records membership. Joining twice yields ErrAlreadyMember.
func (r *GroupRepo) AddMember(ctx context.Context, groupID int, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`, groupID, userID)
	if isUniqueViolation(err) {
		return ErrAlreadyMember
	}
	return err
}

// RemoveMember removes membership. Leaving without a row yields ErrNotMember.
func (r *GroupRepo) RemoveMember(ctx context.Context, groupID int, userID int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id=$1 AND user_id=$2`, groupID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotMember
	}
	return nil
}

// ListMembers returns the group's members with usernames.
func (r *GroupRepo) ListMembers(ctx context.Context, groupID int) ([]models.GroupMember, error) {
	var members []models.GroupMember
	err := r.db.SelectContext(ctx, &members,
		`SELECT gm.user_id, u.username
         FROM group_members gm
         INNER JOIN users u ON u.id = gm.user_id
         WHERE gm.group_id=$1
         ORDER BY u.username`, groupID)
	return members, err
}
