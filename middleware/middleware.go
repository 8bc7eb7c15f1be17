package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

//ValidateMenuItemBody is a middleware function to validate menu item drafts

func ValidateMenuItemBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only mutating verbs carry a draft body
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		contentType := r.Header.Get("Content-Type")
		if contentType != "application/json" {
			http.Error(w, "Content-Type header must be application/json", http.StatusUnsupportedMediaType)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Error reading request body", http.StatusInternalServerError)
			return
		}

		if len(body) == 0 {
			http.Error(w, "Request body is empty", http.StatusBadRequest)
			return
		}

		// Required fields only; price coercion happens in the handler
		type RequestData struct {
			Name  string `json:"name"`
			Image string `json:"image"`
		}

		var requestData RequestData
		if err := json.Unmarshal(body, &requestData); err != nil {
			http.Error(w, "Error decoding JSON: "+err.Error(), http.StatusBadRequest)
			return
		}

		if requestData.Name == "" || requestData.Image == "" {
			http.Error(w, "Name and image are required fields", http.StatusBadRequest)
			return
		}

		// Create a new request with the restored body
		r.Body = io.NopCloser(bytes.NewReader(body))

		next.ServeHTTP(w, r)
	})
}

var secretKey = []byte(os.Getenv("session_secret"))

// SessionMiddleware validates the admin session token and sets the admin
// email in the request context. Every guarded admin route sits behind it;
// a missing or invalid token renders the access-denied response.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.Header.Get("token")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secretKey, nil
		})

		if err != nil || !token.Valid {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("Access Denied; Please check the access token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("Invalid token claims"))
			return
		}

		email, ok := claims["email"].(string)
		if !ok {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("Missing or invalid 'email' field in claims"))
			return
		}

		ctx := context.WithValue(r.Context(), "adminEmail", email)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
