package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/habit-tracker/internal/model"
	"github.com/iliyamo/habit-tracker/internal/store"
)

// catalogCollection names the document-store collection of habit templates.
const catalogCollection = "habits"

// CatalogRepo owns the read-mostly registry of predefined habit templates.
// Templates are created and removed by admins only; assignment copies a
// template's fields into the user's habit instance, so removing a template
// never affects instances assigned from it.
type CatalogRepo struct{ Store store.Store }

func NewCatalogRepo(s store.Store) *CatalogRepo { return &CatalogRepo{Store: s} }

// Add inserts a new template.  Name, cadence and description are required
// and the cadence must be daily or weekly.
func (r *CatalogRepo) Add(ctx context.Context, tpl model.HabitTemplate) (model.HabitTemplate, error) {
	if tpl.Name == "" || tpl.Cadence == "" || tpl.Description == "" {
		return model.HabitTemplate{}, fmt.Errorf("%w: name, type and description are required", ErrMissingField)
	}
	if !tpl.Cadence.Valid() {
		return model.HabitTemplate{}, ErrInvalidCadence
	}
	doc, err := store.EncodeDoc(tpl)
	if err != nil {
		return model.HabitTemplate{}, err
	}
	if tpl.ID == "" {
		delete(doc, "_id")
	}
	created, err := r.Store.Insert(ctx, catalogCollection, doc)
	if err != nil {
		return model.HabitTemplate{}, fmt.Errorf("insert template: %w", err)
	}
	var out model.HabitTemplate
	if err := store.DecodeDoc(created, &out); err != nil {
		return model.HabitTemplate{}, err
	}
	return out, nil
}

// GetByID loads one template.
func (r *CatalogRepo) GetByID(ctx context.Context, id string) (model.HabitTemplate, error) {
	doc, err := r.Store.Find(ctx, catalogCollection, store.Document{"_id": id})
	if errors.Is(err, store.ErrNotFound) {
		return model.HabitTemplate{}, ErrHabitNotFound
	}
	if err != nil {
		return model.HabitTemplate{}, fmt.Errorf("find template: %w", err)
	}
	var tpl model.HabitTemplate
	if err := store.DecodeDoc(doc, &tpl); err != nil {
		return model.HabitTemplate{}, err
	}
	return tpl, nil
}

// GetByName loads one template by its display name.  Used by the simulator
// to keep seeding idempotent.
func (r *CatalogRepo) GetByName(ctx context.Context, name string) (model.HabitTemplate, error) {
	doc, err := r.Store.Find(ctx, catalogCollection, store.Document{"name": name})
	if errors.Is(err, store.ErrNotFound) {
		return model.HabitTemplate{}, ErrHabitNotFound
	}
	if err != nil {
		return model.HabitTemplate{}, fmt.Errorf("find template: %w", err)
	}
	var tpl model.HabitTemplate
	if err := store.DecodeDoc(doc, &tpl); err != nil {
		return model.HabitTemplate{}, err
	}
	return tpl, nil
}

// Remove deletes a template (admin operation).
func (r *CatalogRepo) Remove(ctx context.Context, id string) error {
	ok, err := r.Store.Delete(ctx, catalogCollection, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if !ok {
		return ErrHabitNotFound
	}
	return nil
}

// List returns all templates, optionally filtered by cadence.
func (r *CatalogRepo) List(ctx context.Context, cadence model.Cadence) ([]model.HabitTemplate, error) {
	var filter store.Document
	if cadence != "" {
		filter = store.Document{"type": string(cadence)}
	}
	docs, err := r.Store.List(ctx, catalogCollection, filter)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	tpls := make([]model.HabitTemplate, 0, len(docs))
	for _, doc := range docs {
		var tpl model.HabitTemplate
		if err := store.DecodeDoc(doc, &tpl); err != nil {
			return nil, err
		}
		tpls = append(tpls, tpl)
	}
	return tpls, nil
}
