package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/habit-tracker/internal/model"
	"github.com/iliyamo/habit-tracker/internal/store"
	"github.com/iliyamo/habit-tracker/internal/utils"
)

// usersCollection names the document-store collection holding user records.
const usersCollection = "users"

// UserRepo owns the `users` collection.  A user document embeds its habit
// list, so SaveHabits is the single write path for every habit mutation:
// one read, an in-memory change, one write-back.  Two concurrent writers
// against the same user race and the later write wins; acceptable for a
// single-device personal tracker.
type UserRepo struct{ Store store.Store }

func NewUserRepo(s store.Store) *UserRepo { return &UserRepo{Store: s} }

// Create registers a new account.  All four fields are required; username
// and email must be unique.  The password is bcrypt-hashed before storage.
func (r *UserRepo) Create(ctx context.Context, username, email, name, password string, cost int) (model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || name == "" || password == "" {
		return model.User{}, fmt.Errorf("%w: username, email, name and password are required", ErrMissingField)
	}

	if _, err := r.Store.Find(ctx, usersCollection, store.Document{"username": username}); err == nil {
		return model.User{}, ErrUsernameExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return model.User{}, fmt.Errorf("check username: %w", err)
	}
	if _, err := r.Store.Find(ctx, usersCollection, store.Document{"email": email}); err == nil {
		return model.User{}, ErrEmailExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return model.User{}, fmt.Errorf("check email: %w", err)
	}

	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	doc, err := store.EncodeDoc(model.User{
		Username:     username,
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	})
	if err != nil {
		return model.User{}, err
	}
	delete(doc, "_id") // let the store assign one
	created, err := r.Store.Insert(ctx, usersCollection, doc)
	if err != nil {
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	var u model.User
	if err := store.DecodeDoc(created, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// GetByUsername loads a user record, habits included.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	doc, err := r.Store.Find(ctx, usersCollection, store.Document{"username": username})
	if errors.Is(err, store.ErrNotFound) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user: %w", err)
	}
	var u model.User
	if err := store.DecodeDoc(doc, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Authenticate checks a username/password pair against the stored hash.
func (r *UserRepo) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	u, err := r.GetByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// SaveHabits writes back the full embedded habit list of a user.  Passing an
// explicit empty (non-nil) slice clears the list.
func (r *UserRepo) SaveHabits(ctx context.Context, userID string, habits []model.HabitInstance) error {
	if habits == nil {
		habits = []model.HabitInstance{}
	}
	encoded, err := store.EncodeDoc(struct {
		Habits []model.HabitInstance `json:"habits"`
	}{habits})
	if err != nil {
		return err
	}
	if _, err := r.Store.Update(ctx, usersCollection, userID, encoded); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("save habits: %w", err)
	}
	return nil
}

// Delete removes an account (admin operation).  The embedded habit
// instances disappear with the document; nothing else references them.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	ok, err := r.Store.Delete(ctx, usersCollection, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

// List returns every account (admin operation).
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	docs, err := r.Store.List(ctx, usersCollection, nil)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]model.User, 0, len(docs))
	for _, doc := range docs {
		var u model.User
		if err := store.DecodeDoc(doc, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}
