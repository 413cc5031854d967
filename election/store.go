// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"database/sql"
	"fmt"

	"github.com/openelect/ballotcore/models"
)

// GetByID loads one election. Returns NotFoundError when absent.
func GetByID(db *sql.DB, id string) (models.Election, error) {
	var e models.Election
	err := db.QueryRow(`
		SELECT id, title, description, start_date, end_date,
		       launched, cancelled, hide_result, results_published,
		       owner_id, owner_role, created_at, updated_at
		FROM election
		WHERE id = $1
	`, id).Scan(
		&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate,
		&e.Launched, &e.Cancelled, &e.HideResult, &e.ResultsPublished,
		&e.OwnerID, &e.OwnerRole, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Election{}, &models.NotFoundError{Resource: "election", ID: id}
	}
	if err != nil {
		return models.Election{}, fmt.Errorf("failed to query election: %w", err)
	}
	return e, nil
}

// LoadQuestions loads the full ballot structure of an election, options
// included, in stored order.
func LoadQuestions(db *sql.DB, electionID string) ([]models.Question, error) {
	rows, err := db.Query(`
		SELECT id, election_id, type, title, min_selections, max_selections, randomize, position
		FROM question
		WHERE election_id = $1
		ORDER BY position
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	index := make(map[string]int)
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.ElectionID, &q.Type, &q.Title,
			&q.MinSelections, &q.MaxSelections, &q.Randomize, &q.Position); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		index[q.ID] = len(questions)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read questions: %w", err)
	}
	if len(questions) == 0 {
		return questions, nil
	}

	optRows, err := db.Query(`
		SELECT o.id, o.question_id, o.title, o.short_description, o.full_description,
		       o.photo_url, o.is_write_in, o.position
		FROM option o
		JOIN question q ON o.question_id = q.id
		WHERE q.election_id = $1
		ORDER BY o.position
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var o models.Option
		var short, full, photo sql.NullString
		if err := optRows.Scan(&o.ID, &o.QuestionID, &o.Title, &short, &full,
			&photo, &o.IsWriteIn, &o.Position); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		o.ShortDescription = short.String
		o.FullDescription = full.String
		o.PhotoURL = photo.String
		if i, ok := index[o.QuestionID]; ok {
			questions[i].Options = append(questions[i].Options, o)
		}
	}
	if err := optRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read options: %w", err)
	}

	return questions, nil
}

// GetQuestion loads one question with its options. Returns NotFoundError
// when absent.
func GetQuestion(db *sql.DB, questionID string) (models.Question, error) {
	var q models.Question
	err := db.QueryRow(`
		SELECT id, election_id, type, title, min_selections, max_selections, randomize, position
		FROM question
		WHERE id = $1
	`, questionID).Scan(&q.ID, &q.ElectionID, &q.Type, &q.Title,
		&q.MinSelections, &q.MaxSelections, &q.Randomize, &q.Position)
	if err == sql.ErrNoRows {
		return models.Question{}, &models.NotFoundError{Resource: "question", ID: questionID}
	}
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to query question: %w", err)
	}

	rows, err := db.Query(`
		SELECT id, question_id, title, short_description, full_description,
		       photo_url, is_write_in, position
		FROM option
		WHERE question_id = $1
		ORDER BY position
	`, questionID)
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Option
		var short, full, photo sql.NullString
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Title, &short, &full,
			&photo, &o.IsWriteIn, &o.Position); err != nil {
			return models.Question{}, fmt.Errorf("failed to scan option: %w", err)
		}
		o.ShortDescription = short.String
		o.FullDescription = full.String
		o.PhotoURL = photo.String
		q.Options = append(q.Options, o)
	}
	if err := rows.Err(); err != nil {
		return models.Question{}, fmt.Errorf("failed to read options: %w", err)
	}

	return q, nil
}
