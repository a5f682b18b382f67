package error

import "net/http"

// NotFoundError signals a lookup for a chat, department or other record that
// is not in the collection. Handlers panic with it and the recovery middleware
// renders it as a 404.
type NotFoundError string

func (err NotFoundError) Error() string {
	return string(err)
}

func (err NotFoundError) ErrCode() string {
	return "NOT_FOUND_ERROR"
}

func (err NotFoundError) StatusCode() int {
	return http.StatusNotFound
}
