package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/anonto42/neoping/backend/internal/models"
	"github.com/anonto42/neoping/backend/internal/repositories"
	"github.com/anonto42/neoping/backend/internal/testutil"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) (*repositories.Store, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	if err := repositories.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repositories.NewStore(db), db
}

func actor(id uint, name string) *models.Actor {
	return &models.Actor{ID: id, Username: name}
}

// recordingNotifier captures notifications in memory.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n *models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, *n)
}

func (r *recordingNotifier) all() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Notification(nil), r.sent...)
}

// memoryNotificationRepo is an in-memory NotificationRepository.
type memoryNotificationRepo struct {
	mu    sync.Mutex
	items []models.Notification
	err   error
}

func (m *memoryNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.items = append(m.items, *n)
	return nil
}

func (m *memoryNotificationRepo) ListByRecipient(_ context.Context, recipient string, skip, limit int64) ([]models.Notification, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, 0, m.err
	}
	var mine []models.Notification
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.items[i].Recipient == recipient {
			mine = append(mine, m.items[i])
		}
	}
	total := int64(len(mine))
	if skip >= total {
		return []models.Notification{}, total, nil
	}
	end := min(skip+limit, total)
	return mine[skip:end], total, nil
}

// statementLog records the statements a gorm DB runs as "<op> <table>".
// Locking reads inside a transaction are recorded as "lock <table>".
type statementLog struct {
	mu     sync.Mutex
	events []string
}

func watchStatements(t *testing.T, db *gorm.DB) *statementLog {
	t.Helper()
	l := &statementLog{}
	record := func(op string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			stmt := tx.Statement
			event := op + " " + stmt.Table
			if _, ok := stmt.Clauses["FOR"]; ok {
				event = "lock " + stmt.Table
				if _, inTx := stmt.ConnPool.(gorm.TxCommitter); !inTx {
					event += " outside transaction"
				}
			}
			l.mu.Lock()
			l.events = append(l.events, event)
			l.mu.Unlock()
		}
	}
	cb := db.Callback()
	for _, err := range []error{
		cb.Query().Before("gorm:query").Register("test:watch_query", record("select")),
		cb.Create().Before("gorm:create").Register("test:watch_create", record("insert")),
		cb.Update().Before("gorm:update").Register("test:watch_update", record("update")),
		cb.Delete().Before("gorm:delete").Register("test:watch_delete", record("delete")),
	} {
		if err != nil {
			t.Fatalf("register callback: %v", err)
		}
	}
	return l
}

func (l *statementLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}

func (l *statementLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

var errStoreDown = errors.New("store down")
