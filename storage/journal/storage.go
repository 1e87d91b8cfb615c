// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package journal

import (
	"fmt"

	"github.com/sharp-rmf/door-adapter-dormakaba/storage"
)

type (
	// Convenience aliases for importing modules
	DbHandle = storage.DbHandle
	FsHandle = storage.FsHandle

	DoorCommand = storage.DoorCommand
)

var (
	NewDb = storage.NewDb
	NewFs = storage.NewFs
)

const DefaultListLimit = 50

// Storage keeps the journal of door commands.
type Storage struct {
	db *DbHandle

	stmtCommandInsert stmtCommandInsert
	stmtCommandList   stmtCommandList
}

func NewStorage(db *DbHandle) (*Storage, error) {
	handle := Storage{db: db}
	if err := db.InitStmt(
		&handle.stmtCommandInsert,
		&handle.stmtCommandList,
	); err != nil {
		return nil, err
	}
	return &handle, nil
}

func (s Storage) RecordCommand(cmd DoorCommand) error {
	if err := s.stmtCommandInsert.run(cmd); err != nil {
		return fmt.Errorf("unable to record %s command for door %s: %w", cmd.Action, cmd.Door, err)
	}
	return nil
}

// ListCommands returns the latest commands of a door, newest first.
func (s Storage) ListCommands(door string, limit int) ([]DoorCommand, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	cmds, err := s.stmtCommandList.run(door, limit)
	if err != nil {
		return nil, fmt.Errorf("unable to list commands for door %s: %w", door, err)
	}
	return cmds, nil
}

type stmtCommandInsert storage.DbStmt

func (s *stmtCommandInsert) Init(db storage.DbHandle) (err error) {
	s.Stmt, err = db.Prepare("CommandInsert", `
		INSERT INTO door_commands(id, door, door_id, action, outcome, status_code, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	return
}

func (s *stmtCommandInsert) run(c DoorCommand) error {
	_, err := s.Stmt.Exec(c.Id, c.Door, c.DoorId, c.Action, c.Outcome, c.StatusCode, c.Detail, c.CreatedAt)
	return err
}

type stmtCommandList storage.DbStmt

func (s *stmtCommandList) Init(db storage.DbHandle) (err error) {
	s.Stmt, err = db.Prepare("CommandList", `
		SELECT id, door, door_id, action, outcome, status_code, detail, created_at
		FROM door_commands
		WHERE door = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`,
	)
	return
}

func (s *stmtCommandList) run(door string, limit int) ([]DoorCommand, error) {
	rows, err := s.Stmt.Query(door, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	cmds := []DoorCommand{}
	for rows.Next() {
		var c DoorCommand
		if err := rows.Scan(&c.Id, &c.Door, &c.DoorId, &c.Action, &c.Outcome, &c.StatusCode, &c.Detail, &c.CreatedAt); err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return cmds, rows.Err()
}
