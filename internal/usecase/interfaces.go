package usecase

import (
	"context"

	"github.com/outflowhq/engage-api/internal/entity"
	"github.com/outflowhq/engage-api/internal/infra/integration/crm"
	"github.com/outflowhq/engage-api/internal/infra/queue"
)

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *entity.Lead) error
	// FindByExternalID devolve (nil, nil) quando não existe.
	FindByExternalID(ctx context.Context, companyID, externalID, externalType string) (*entity.Lead, error)
}

type UserRepositoryInterface interface {
	// FindByCRMID devolve (nil, nil) quando o owner não existe no tenant.
	FindByCRMID(ctx context.Context, companyID, crmID string) (*entity.User, error)
}

type CadenceRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*entity.Cadence, error)
}

type LeadCadenceRepositoryInterface interface {
	Create(ctx context.Context, link *entity.LeadCadence) error
	// MaxOrderBelow devolve o maior order < cap do par (user, cadence);
	// found=false quando não há nenhum vínculo abaixo do teto.
	MaxOrderBelow(ctx context.Context, userID, cadenceID string, cap int) (order int, found bool, err error)
	HasLink(ctx context.Context, leadID, cadenceID string) (bool, error)
	StopActiveForLead(ctx context.Context, leadID, exceptCadenceID string) error
}

type FieldMapProviderInterface interface {
	FindByCompanyID(ctx context.Context, companyID string) (*entity.FieldMap, error)
}

type AccessTokenProviderInterface interface {
	GetAccessToken(ctx context.Context, companyID, provider string) (*crm.AccessToken, error)
}

type ImportNotifierInterface interface {
	PublishProgress(ctx context.Context, sessionID string, payload queue.ProgressPayload) error
	PublishResult(ctx context.Context, sessionID string, payload queue.ResultPayload) error
}

type RecomputeNotifierInterface interface {
	PublishRecompute(ctx context.Context, payload queue.RecomputePayload) error
}

type EmailService interface {
	SendImportReport(to, cadenceName string, totalSuccess, totalError int) error
}
