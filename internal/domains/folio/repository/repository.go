package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"stayops/infras/otel"
	"stayops/infras/postgres"
	"stayops/internal/domains/folio/model"
	"stayops/shared"
	"stayops/shared/constant"
	gDto "stayops/shared/dto"
	gRepo "stayops/shared/repository"
)

// Folio is append-only: entries are inserted and listed, never updated or deleted.
type Folio interface {
	InsertItem(ctx context.Context, item model.Item) error
	InsertPayment(ctx context.Context, payment model.Payment) error
	GetItems(ctx context.Context, tenantID, bookingID string) ([]model.Item, error)
	GetPayments(ctx context.Context, tenantID, bookingID string) ([]model.Payment, error)
}

type repositoryImpl struct {
	items    gRepo.Repository[model.Item]
	payments gRepo.Repository[model.Payment]
	otel     otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Folio {
	return &repositoryImpl{
		items:    gRepo.NewRepository[model.Item](model.ItemEntityName, model.ItemTableName, model.FieldID, db, otel),
		payments: gRepo.NewRepository[model.Payment](model.PaymentEntity, model.PaymentTableName, model.FieldID, db, otel),
		otel:     otel,
	}
}

func (r *repositoryImpl) InsertItem(ctx context.Context, item model.Item) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".folio.InsertItem")
	defer scope.End()

	return r.items.Insert(ctx, item) //nolint:wrapcheck
}

func (r *repositoryImpl) InsertPayment(ctx context.Context, payment model.Payment) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".folio.InsertPayment")
	defer scope.End()

	return r.payments.Insert(ctx, payment) //nolint:wrapcheck
}

func (r *repositoryImpl) GetItems(ctx context.Context, tenantID, bookingID string) ([]model.Item, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".folio.GetItems")
	defer scope.End()

	params := gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}

	return r.items.GetAll(ctx, params, byBooking(tenantID, bookingID, model.ItemTableName)) //nolint:wrapcheck
}

func (r *repositoryImpl) GetPayments(ctx context.Context, tenantID, bookingID string) ([]model.Payment, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".folio.GetPayments")
	defer scope.End()

	params := gDto.QueryParams{SortBy: model.FieldPaidAt, SortDir: gDto.SortDirAsc}

	return r.payments.GetAll(ctx, params, byBooking(tenantID, bookingID, model.PaymentTableName)) //nolint:wrapcheck
}

func byBooking(tenantID, bookingID, table string) gDto.FilterGroup {
	return shared.FilterByTenant(tenantID, table, gDto.Filter{
		Field:    model.FieldBookingID,
		Operator: gDto.FilterOperatorEq,
		Value:    bookingID,
		Table:    table,
	})
}
