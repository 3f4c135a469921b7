package db

import (
	"context"
	"database/sql"
	"errors"
)

// SaveDailyNote upserts the note content for a date.
func (d *Database) SaveDailyNote(ctx context.Context, date, content string) error {
	_, err := d.conn.ExecContext(ctx,
		`REPLACE INTO daily_notes (date, content) VALUES (?, ?)`, date, content)
	if err != nil {
		return storagef(err, "saving daily note for %s", date)
	}

	return nil
}

// GetDailyNote returns the note for a date, or "" when none was written.
func (d *Database) GetDailyNote(ctx context.Context, date string) (string, error) {
	var content string

	err := d.conn.QueryRowContext(ctx,
		`SELECT content FROM daily_notes WHERE date = ?`, date).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}

	if err != nil {
		return "", storagef(err, "loading daily note for %s", date)
	}

	return content, nil
}

// ListDailyNotes returns every note, newest first.
func (d *Database) ListDailyNotes(ctx context.Context) ([]*DailyNote, error) {
	rows, err := d.conn.QueryContext(ctx,
		`SELECT date, content FROM daily_notes ORDER BY date DESC`)
	if err != nil {
		return nil, storagef(err, "loading daily notes")
	}
	defer rows.Close()

	var notes []*DailyNote

	for rows.Next() {
		var note DailyNote
		if err := rows.Scan(&note.Date, &note.Content); err != nil {
			return nil, storagef(err, "scanning daily note")
		}

		notes = append(notes, &note)
	}

	if err := rows.Err(); err != nil {
		return nil, storagef(err, "scanning daily notes")
	}

	return notes, nil
}

// AddTopic adds a knowledge base topic under the given parent; an empty
// parent id creates a root topic. Returns the new topic's id.
func (d *Database) AddTopic(ctx context.Context, title, parentID string) (string, error) {
	if title == "" {
		return "", &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	id := NewID()

	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO knowledge_base (id, parent_id, title, content) VALUES (?, ?, ?, '')`,
		id, nullable(parentID), title)
	if err != nil {
		return "", storagef(err, "adding topic '%s'", title)
	}

	return id, nil
}

// ListTopics returns the children of a topic, or the root topics when the
// parent id is empty, ordered by title.
func (d *Database) ListTopics(ctx context.Context, parentID string) ([]*KnowledgeTopic, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if parentID == "" {
		rows, err = d.conn.QueryContext(ctx,
			`SELECT id, parent_id, title, content FROM knowledge_base
			 WHERE parent_id IS NULL ORDER BY title`)
	} else {
		rows, err = d.conn.QueryContext(ctx,
			`SELECT id, parent_id, title, content FROM knowledge_base
			 WHERE parent_id = ? ORDER BY title`, parentID)
	}

	if err != nil {
		return nil, storagef(err, "loading topics")
	}
	defer rows.Close()

	var topics []*KnowledgeTopic

	for rows.Next() {
		var topic KnowledgeTopic

		var parent, content sql.NullString

		if err := rows.Scan(&topic.ID, &parent, &topic.Title, &content); err != nil {
			return nil, storagef(err, "scanning topic")
		}

		topic.ParentID = parent.String
		topic.Content = content.String

		topics = append(topics, &topic)
	}

	if err := rows.Err(); err != nil {
		return nil, storagef(err, "scanning topics")
	}

	return topics, nil
}

// UpdateTopicContent saves the note content of a topic.
func (d *Database) UpdateTopicContent(ctx context.Context, id, content string) error {
	result, err := d.conn.ExecContext(ctx,
		`UPDATE knowledge_base SET content = ? WHERE id = ?`, content, id)
	if err != nil {
		return storagef(err, "updating topic %s", id)
	}

	return requireRow(result, "topic", id)
}

// GetTopicContent returns the note content of a topic, "" when the topic is
// gone.
func (d *Database) GetTopicContent(ctx context.Context, id string) (string, error) {
	var content sql.NullString

	err := d.conn.QueryRowContext(ctx,
		`SELECT content FROM knowledge_base WHERE id = ?`, id).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}

	if err != nil {
		return "", storagef(err, "loading topic %s", id)
	}

	return content.String, nil
}

// DeleteTopic removes a topic and, through the cascade, its whole subtree.
func (d *Database) DeleteTopic(ctx context.Context, id string) error {
	result, err := d.conn.ExecContext(ctx, `DELETE FROM knowledge_base WHERE id = ?`, id)
	if err != nil {
		return storagef(err, "deleting topic %s", id)
	}

	return requireRow(result, "topic", id)
}
