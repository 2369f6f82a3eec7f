package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-wizard/internal/types"
)

// User is a stored account with its resume profile.
type User struct {
	ID              uuid.UUID         `json:"id"`
	Email           string            `json:"email"`
	PasswordHash    string            `json:"-"`
	Name            string            `json:"name,omitempty"`
	CurrentJobTitle string            `json:"current_job_title,omitempty"`
	Address         string            `json:"address,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	ResumeEmail     string            `json:"resume_email,omitempty"`
	Socials         map[string]string `json:"socials,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

const userColumns = `id, email, password_hash, name, current_job_title, address, phone, resume_email, socials, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var socials []byte
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CurrentJobTitle,
		&u.Address, &u.Phone, &u.ResumeEmail, &socials, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(socials) > 0 {
		if err := json.Unmarshal(socials, &u.Socials); err != nil {
			return nil, fmt.Errorf("decoding socials: %w", err)
		}
	}
	return &u, nil
}

// CreateUser inserts a new account. It returns an error when the email is
// already taken.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (*User, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash)
		 VALUES ($1, $2)
		 RETURNING `+userColumns,
		email, passwordHash,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// GetUserByEmail returns nil when no account matches.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return user, nil
}

// GetUserByID returns nil when no account matches.
func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting user by id: %w", err)
	}
	return user, nil
}

// UpdateProfile overwrites the personal-info fields that update carries.
// Empty fields in update are left untouched.
func (s *Store) UpdateProfile(ctx context.Context, userID uuid.UUID, update types.PersonalInfoUpdate) (*User, error) {
	socials, err := json.Marshal(update.Socials)
	if err != nil {
		return nil, fmt.Errorf("encoding socials: %w", err)
	}

	row := s.pool.QueryRow(ctx,
		`UPDATE users SET
			name = COALESCE(NULLIF($2, ''), name),
			current_job_title = COALESCE(NULLIF($3, ''), current_job_title),
			address = COALESCE(NULLIF($4, ''), address),
			phone = COALESCE(NULLIF($5, ''), phone),
			resume_email = COALESCE(NULLIF($6, ''), resume_email),
			socials = CASE WHEN $7::jsonb = 'null'::jsonb THEN socials ELSE $7::jsonb END,
			updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		userID, update.Name, update.CurrentJobTitle, update.Address,
		update.Phone, update.ResumeEmail, socials,
	)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return user, nil
}

// GetKnowledgeGraph returns the stored knowledge graph for a user.
func (s *Store) GetKnowledgeGraph(ctx context.Context, userID uuid.UUID) (*types.KnowledgeGraphAdd, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT knowledge_graph FROM users WHERE id = $1`, userID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting knowledge graph: %w", err)
	}

	var graph types.KnowledgeGraphAdd
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &graph); err != nil {
			return nil, fmt.Errorf("decoding knowledge graph: %w", err)
		}
	}
	return &graph, nil
}

// AddKnowledgeGraph appends the entries in add to the user's stored graph.
// Sections absent from add are left untouched.
func (s *Store) AddKnowledgeGraph(ctx context.Context, userID uuid.UUID, add types.KnowledgeGraphAdd) (*types.KnowledgeGraphAdd, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var raw []byte
	err = tx.QueryRow(ctx,
		`SELECT knowledge_graph FROM users WHERE id = $1 FOR UPDATE`, userID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("locking knowledge graph: %w", err)
	}

	var graph types.KnowledgeGraphAdd
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &graph); err != nil {
			return nil, fmt.Errorf("decoding knowledge graph: %w", err)
		}
	}

	graph.WorkExperience = append(graph.WorkExperience, add.WorkExperience...)
	graph.Education = append(graph.Education, add.Education...)
	graph.Projects = append(graph.Projects, add.Projects...)
	graph.ResearchWork = append(graph.ResearchWork, add.ResearchWork...)
	graph.Skills = mergeSkills(graph.Skills, add.Skills)

	updated, err := json.Marshal(graph)
	if err != nil {
		return nil, fmt.Errorf("encoding knowledge graph: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE users SET knowledge_graph = $2, updated_at = NOW() WHERE id = $1`,
		userID, updated,
	); err != nil {
		return nil, fmt.Errorf("saving knowledge graph: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing knowledge graph: %w", err)
	}
	return &graph, nil
}

// mergeSkills appends new skills, dropping case-insensitive duplicates.
func mergeSkills(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, s := range existing {
		seen[normalizeSkill(s)] = true
	}
	out := existing
	for _, s := range incoming {
		key := normalizeSkill(s)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
