package models

import (
	"context"
	"regexp"

	"github.com/datapar/analysis-backend/internal/platform/apierr"
	"github.com/datapar/analysis-backend/internal/platform/docid"
	"github.com/datapar/analysis-backend/internal/platform/docstore"
	"github.com/datapar/analysis-backend/internal/platform/logger"

	"github.com/datapar/analysis-backend/internal/data/schema"
)

var userSchema = schema.Schema{
	{Name: "name", Rule: schema.String{Required: true}},
	{Name: "email", Rule: schema.String{Required: true}},
	{Name: "passwordHash", Rule: schema.String{Required: true}},
	{Name: "createdAt", Rule: schema.String{}, HasDefault: true},
	{Name: "updatedAt", Rule: schema.String{}, HasDefault: true},
}

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

func validateEmail(value any) error {
	email, _ := value.(string)
	if !emailPattern.MatchString(email) {
		return apierr.Validation("Validation failed", []string{"email structure not valid"})
	}
	return nil
}

type UserModel struct {
	col *docstore.Collection
	log *logger.Logger
}

func NewUserModel(store *docstore.Store, baseLog *logger.Logger) *UserModel {
	return &UserModel{
		col: store.Collection(UsersCollection),
		log: baseLog.With("model", "UserModel"),
	}
}

func (m *UserModel) Create(ctx context.Context, data docstore.Document) (docstore.Document, error) {
	if err := schema.Validate(data, userSchema, schema.ModeCreate); err != nil {
		return nil, err
	}
	if err := validateEmail(data["email"]); err != nil {
		return nil, err
	}
	doc := withID(data, docid.New())
	now := timestamp()
	schema.ApplyDefaults(doc, map[string]any{
		"createdAt": now,
		"updatedAt": now,
	})
	return m.col.Insert(ctx, doc)
}

func (m *UserModel) FindByID(ctx context.Context, id string) (docstore.Document, error) {
	return m.col.FindOne(ctx, docstore.Document{docstore.IDField: id})
}

func (m *UserModel) FindByEmail(ctx context.Context, email string) (docstore.Document, error) {
	return m.col.FindOne(ctx, docstore.Document{"email": email})
}

func (m *UserModel) UpdateByID(ctx context.Context, id string, updates docstore.Document) (docstore.Document, error) {
	if err := schema.Validate(updates, userSchema, schema.ModeUpdate); err != nil {
		return nil, err
	}
	if _, ok := updates["email"]; ok {
		if err := validateEmail(updates["email"]); err != nil {
			return nil, err
		}
	}
	set := clone(updates)
	set["updatedAt"] = timestamp()
	res, err := m.col.Update(ctx, docstore.Document{docstore.IDField: id}, set, docstore.UpdateOptions{ReturnUpdated: true})
	if err != nil {
		return nil, err
	}
	return firstOrNil(res.Docs), nil
}

func (m *UserModel) DeleteByID(ctx context.Context, id string) (int, error) {
	return m.col.Remove(ctx, docstore.Document{docstore.IDField: id})
}
