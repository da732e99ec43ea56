// Package response пишет JSON-конверт {success, message, data, count} всех ответов API.
package response

import (
	"encoding/json"
	"net/http"
)

// Envelope — общий формат ответа. Error заполняется только вне production.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON сериализует конверт с заданным статусом.
func JSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// OK — успешный ответ с данными и необязательным сообщением.
func OK(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// List — успешный ответ со списком и его длиной в count.
func List(w http.ResponseWriter, data any, count int) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

// Fail — ответ об ошибке с сообщением для клиента.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Success: false, Message: message})
}

// FailDetail добавляет текст err в поле error, если detail == true.
func FailDetail(w http.ResponseWriter, status int, message string, err error, detail bool) {
	env := Envelope{Success: false, Message: message}
	if detail && err != nil {
		env.Error = err.Error()
	}
	JSON(w, status, env)
}
