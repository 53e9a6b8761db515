package model

// User is an account record in the `users` collection.  The assigned habit
// instances live inside the record itself rather than in their own
// collection, so a single document update covers any habit mutation.
// PasswordHash is a bcrypt hash; the plain password is never stored.
type User struct {
	ID           string          `json:"_id"`
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	PasswordHash string          `json:"password"`
	Habits       []HabitInstance `json:"habits,omitempty"`
}
