package db

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// syncBuffer guards a bytes.Buffer written by the audit goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func newBufferedLogger(buf *syncBuffer, level zapcore.Level) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(buf),
		level,
	)
	return zap.New(core)
}

func TestStartLegacyCredentialAudit_WarnsOnLegacyRows(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(legacyCredentialsQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	var buf syncBuffer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartLegacyCredentialAudit(ctx, dbMock, 10*time.Millisecond, newBufferedLogger(&buf, zapcore.WarnLevel))

	time.Sleep(200 * time.Millisecond)
	cancel()

	if out := buf.String(); !strings.Contains(out, "accounts with legacy plaintext credentials") {
		t.Errorf("expected warning log, got:\n%s", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStartLegacyCredentialAudit_ErrorLogged(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(legacyCredentialsQuery)).
		WillReturnError(fmt.Errorf("db fail"))

	var buf syncBuffer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartLegacyCredentialAudit(ctx, dbMock, 10*time.Millisecond, newBufferedLogger(&buf, zapcore.ErrorLevel))

	time.Sleep(200 * time.Millisecond)
	cancel()

	if out := buf.String(); !strings.Contains(out, "failed to count legacy credentials") {
		t.Errorf("expected error log, got:\n%s", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStartLegacyCredentialAudit_CancelBeforeTicker(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	ctx, cancel := context.WithCancel(context.Background())

	StartLegacyCredentialAudit(ctx, dbMock, 100*time.Millisecond, zap.NewNop())
	cancel()

	time.Sleep(50 * time.Millisecond)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected sql calls: %v", err)
	}
}
