package models

//Admin represents an admin account able to manage the menu and orders

type Admin struct {
	ID       interface{} `json:"id" bson:"_id,omitempty"`
	Email    string      `json:"email" bson:"email"`
	Password string      `json:"password" bson:"password"`
}

type AdminProfile struct {
	Email string `json:"email" bson:"email"`
}
