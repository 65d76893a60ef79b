package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"gamechat/internal/models"
)

// writeJSON leaves HTML characters unescaped so echoed text matches the
// request.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(data)
}

// writeChatResponse is writeJSON for chat replies. The encoder compacts
// json.RawMessage, so history is spliced in as the exact bytes received.
func writeChatResponse(w http.ResponseWriter, status int, resp models.ChatResponse) {
	history := resp.History
	if len(history) == 0 {
		writeJSON(w, status, resp)
		return
	}
	resp.History = nil

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewChatFailure(msgGenericFailure))
		return
	}

	out := bytes.TrimRight(buf.Bytes(), "\n")
	out = out[:len(out)-1] // closing brace
	out = append(out, `,"history":`...)
	out = append(out, history...)
	out = append(out, "}\n"...)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(out)
}
