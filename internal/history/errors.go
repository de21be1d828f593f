package history

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"ISQM/internal/i18n"

	"github.com/lib/pq"
	"github.com/omeid/pgerror"
)

// Error kinds reported to metrics.
const (
	KindSession    = "session"
	KindSchema     = "schema"
	KindConnection = "connection"
	KindOther      = "other"
)

// Classify maps a failed history call to the message key shown to the user.
func Classify(err error, fallback i18n.Key) i18n.Key {
	switch Kind(err) {
	case KindSession:
		return i18n.CommonSignInAgain
	case KindSchema:
		return i18n.CommonMigrationRequired
	}
	return fallback
}

func Kind(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNotSignedIn) {
		return KindSession
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pgerror.UndefinedColumn(pqErr) != nil || pgerror.UndefinedTable(pqErr) != nil {
			return KindSchema
		}
		if pgerror.ConnectionException(pqErr) != nil {
			return KindConnection
		}
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "outputs jsonb") || strings.Contains(msg, "schema cache") {
		return KindSchema
	}
	return KindOther
}

var spaces = regexp.MustCompile(`\s+`)

func normalize(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// FormatError renders err for a notice. Postgres errors join message, detail
// and hint and carry their SQLSTATE code.
func FormatError(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		if msg := normalize(err.Error()); msg != "" {
			return msg
		}
		return fallback
	}
	var parts []string
	for _, p := range []string{pqErr.Message, pqErr.Detail, pqErr.Hint} {
		if p = normalize(p); p != "" {
			parts = append(parts, p)
		}
	}
	msg := strings.Join(parts, " ")
	if msg == "" {
		return fallback
	}
	if code := string(pqErr.Code); code != "" && !strings.Contains(msg, code) {
		msg = fmt.Sprintf("%s (code: %s)", msg, code)
	}
	return msg
}

// Reason is the {{error}} text for a failure notice: the classified message
// for session and schema problems, the formatted error otherwise.
func Reason(err error, tr i18n.Translator, fallback i18n.Key) string {
	if key := Classify(err, fallback); key != fallback {
		return tr.T(key, nil)
	}
	return FormatError(err, tr.T(fallback, nil))
}
