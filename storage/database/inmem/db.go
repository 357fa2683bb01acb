// Package inmemdb provides in-memory repository implementations used by
// tests and local development.
package inmemdb

import (
	"sync"

	"github.com/taskspro/backend/core/assignment"
	"github.com/taskspro/backend/core/discussion"
	"github.com/taskspro/backend/core/focus"
	"github.com/taskspro/backend/core/note"
	"github.com/taskspro/backend/core/progression"
	"github.com/taskspro/backend/core/quiz"
	"github.com/taskspro/backend/core/todo"
	"github.com/taskspro/backend/core/user"
)

type (
	DB struct {
		user        *userTable
		progression *progressionTable
		quiz        *quizTable
		assignment  *assignmentTable
		note        *noteTable
		todo        *todoTable
		focus       *focusTable
		discussion  *discussionTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	progressionTable struct {
		sync.RWMutex
		table map[string]progression.Progression
	}

	quizTable struct {
		sync.RWMutex
		table    map[string]quiz.Quiz
		attempts []quiz.Attempt
	}

	assignmentTable struct {
		sync.RWMutex
		table       map[string]assignment.Assignment
		submissions map[string]assignment.Submission // assignmentID + "|" + userID
	}

	noteTable struct {
		sync.RWMutex
		table map[string]note.Note
	}

	todoTable struct {
		sync.RWMutex
		table map[string]todo.Todo
	}

	focusTable struct {
		sync.RWMutex
		sessions []focus.Session
	}

	discussionTable struct {
		sync.RWMutex
		threads map[string]discussion.Thread
		replies map[string]discussion.Reply
	}
)

func Open() *DB {
	return &DB{
		user:        &userTable{table: make(map[string]*user.User)},
		progression: &progressionTable{table: make(map[string]progression.Progression)},
		quiz:        &quizTable{table: make(map[string]quiz.Quiz)},
		assignment: &assignmentTable{
			table:       make(map[string]assignment.Assignment),
			submissions: make(map[string]assignment.Submission),
		},
		note:  &noteTable{table: make(map[string]note.Note)},
		todo:  &todoTable{table: make(map[string]todo.Todo)},
		focus: &focusTable{},
		discussion: &discussionTable{
			threads: make(map[string]discussion.Thread),
			replies: make(map[string]discussion.Reply),
		},
	}
}
