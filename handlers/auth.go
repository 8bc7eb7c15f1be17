package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go_trial/kapehan/models"

	"github.com/golang-jwt/jwt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"
)

// LoginHandler signs an admin in with email and password. Every failure
// past basic form validation is reported with the same generic message so
// callers cannot tell a wrong password from a missing account.
func (db *DB) LoginHandler(w http.ResponseWriter, r *http.Request) {
	loginRequests.Inc()

	ctx, span := otel.Tracer("auth-service").Start(r.Context(), "LoginHandler")
	defer span.End()

	err := r.ParseForm()
	if err != nil {
		http.Error(w, "Invalid Form Data", http.StatusBadRequest)
		loginRequestsbyStatus.WithLabelValues("error").Inc()
		return
	}

	email := r.PostForm.Get("email")
	password := r.PostForm.Get("password")

	if email == "" || password == "" {
		http.Error(w, "Email and Password are required", http.StatusBadRequest)
		loginRequestsbyStatus.WithLabelValues("error").Inc()
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var admin models.Admin

	err = db.AdminCollection.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err != nil {
		span.RecordError(err)
		http.Error(w, "Invalid login credentials", http.StatusUnauthorized)
		loginRequestsbyStatus.WithLabelValues("error").Inc()
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		http.Error(w, "Invalid login credentials", http.StatusUnauthorized)
		loginRequestsbyStatus.WithLabelValues("error").Inc()
		return
	}

	// Credentials are correct, generate JWT token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(time.Hour * 1).Unix(), // Access token expires in 1 hour
		"iat":   time.Now().Unix(),
	})
	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		loginRequestsbyStatus.WithLabelValues("error").Inc()
		return
	}

	//Generate Refresh Token
	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(24 * time.Hour).Unix(), // Refresh token expires in 24 hours
		"iat":   time.Now().Unix(),
		"type":  "refresh",
	})

	refreshTokenString, err := refreshToken.SignedString(secretKey)
	if err != nil {
		http.Error(w, "Failed to generate token "+err.Error(), http.StatusInternalServerError)
		loginRequestsbyStatus.WithLabelValues("error").Inc()
		return
	}

	//Store refresh token in the database
	_, err = db.RefreshTokenCollection.InsertOne(ctx, bson.M{
		"email":        email,
		"refreshToken": refreshTokenString,
		"iat":          time.Now().Unix(),
	})
	if err != nil {
		http.Error(w, "Failed to store refresh Token "+err.Error(), http.StatusInternalServerError)
		loginRequestsbyStatus.WithLabelValues("error").Inc()
		return
	}

	response := Response{AccessToken: tokenString, RefreshToken: refreshTokenString}
	respJSON, err := json.Marshal(response)
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(respJSON)
	loginRequestsbyStatus.WithLabelValues("success").Inc()
}

func (db *DB) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if request.RefreshToken == "" {
		http.Error(w, "Refresh token is required", http.StatusBadRequest)
		return
	}

	token, err := jwt.Parse(request.RefreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return secretKey, nil
	})

	if err != nil || !token.Valid {
		http.Error(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		http.Error(w, "Invalid token claims", http.StatusUnauthorized)
		return
	}
	if claims["type"] != "refresh" {
		http.Error(w, "Invalid token type", http.StatusUnauthorized)
		return
	}

	email, ok := claims["email"].(string)
	if !ok {
		http.Error(w, "Invalid token payload", http.StatusUnauthorized)
		return
	}

	// Check if the refresh token exists in the database
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var storedToken struct {
		RefreshToken string `json:"refreshToken" bson:"refreshToken"`
	}

	err = db.RefreshTokenCollection.FindOne(ctx, bson.M{
		"email":        email,
		"refreshToken": request.RefreshToken,
	}).Decode(&storedToken)

	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "Refresh token not found", http.StatusUnauthorized)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Generate a new access token
	newAccessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(1 * time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	})

	newAccessTokenString, err := newAccessToken.SignedString(secretKey)
	if err != nil {
		http.Error(w, "Failed to generate access token", http.StatusInternalServerError)
		return
	}

	response := struct {
		AccessToken string `json:"access_token"`
	}{
		AccessToken: newAccessTokenString,
	}

	respJSON, err := json.Marshal(response)
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(respJSON)
}

//LogoutHandler ends the admin session

func (db *DB) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	// Retrieve admin email from context
	email, ok := r.Context().Value("adminEmail").(string)
	if !ok {
		http.Error(w, "Failed to retrieve session", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	//Blacklist the access token

	accessToken := r.Header.Get("token")

	if accessToken != "" {
		blacklistToken := bson.M{"token": accessToken, "expiresAt": time.Now().Add(time.Second * 60).Unix()}
		_, err := db.TokenBlacklistCollection.InsertOne(ctx, blacklistToken)
		if err != nil {
			http.Error(w, "Failed to blacklist token", http.StatusInternalServerError)
			return
		}
	}

	// Delete refresh token from the database
	result, err := db.RefreshTokenCollection.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		http.Error(w, "Failed to delete refresh token", http.StatusInternalServerError)
		return
	}

	if result.DeletedCount == 0 {
		http.Error(w, "No active session found", http.StatusNotFound)
		return
	}

	//Log the logout operation for auditing

	logoutLog := bson.M{"email": email, "timestamp": time.Now().Unix(), "operation": "logout", "ip": r.RemoteAddr}

	_, err = db.AuditLogCollection.InsertOne(ctx, logoutLog)

	if err != nil {
		http.Error(w, "Failed to log the logout operation", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Admin logged out successfully"})
}

// MeHandler reports the currently authenticated admin. The guarded views
// use it to decide between their loading, access-denied and authorized
// renders.
func (db *DB) MeHandler(w http.ResponseWriter, r *http.Request) {
	email, _ := r.Context().Value("adminEmail").(string)

	var profile models.AdminProfile
	err := db.AdminCollection.FindOne(context.TODO(), bson.M{"email": email}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Admin not found"))
			return
		}
		http.Error(w, "Error fetching session details", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(profile)
}
