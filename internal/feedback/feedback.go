package feedback

import (
	"encoding/json"
	"net/http"

	"ISQM/internal/i18n"

	"go.uber.org/zap"
)

type Variant string

const (
	Success Variant = "success"
	Error   Variant = "error"
	Info    Variant = "info"
)

// Notice is the modal message shown after an action.
type Notice struct {
	Variant Variant `json:"variant"`
	Title   string  `json:"title"`
	Message string  `json:"message"`
}

func New(tr i18n.Translator, v Variant, title, message i18n.Key, params i18n.Params) Notice {
	return Notice{Variant: v, Title: tr.T(title, nil), Message: tr.T(message, params)}
}

// WriteJSON encodes body before any header goes out, so a value that cannot
// be encoded becomes a 500 instead of an empty response.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	buf, err := json.Marshal(body)
	if err != nil {
		zap.L().Error("encode response", zap.Int("status", status), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(buf, '\n'))
}

// WriteNotice sends {"notice": n} with status.
func WriteNotice(w http.ResponseWriter, status int, n Notice) {
	WriteJSON(w, status, map[string]Notice{"notice": n})
}
