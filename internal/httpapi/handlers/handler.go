package handlers

import (
	"gorm.io/gorm"

	"github.com/Cyril-dot/billionBackend/internal/cart"
	"github.com/Cyril-dot/billionBackend/internal/catalog"
	"github.com/Cyril-dot/billionBackend/internal/chat"
	"github.com/Cyril-dot/billionBackend/internal/config"
	"github.com/Cyril-dot/billionBackend/internal/email"
	"github.com/Cyril-dot/billionBackend/internal/identity"
	"github.com/Cyril-dot/billionBackend/internal/notify"
	"github.com/Cyril-dot/billionBackend/internal/orders"
	"github.com/Cyril-dot/billionBackend/internal/realtime"
	"github.com/Cyril-dot/billionBackend/internal/store/redisstore"
)

type Handler struct {
	Cfg   config.Config
	Redis *redisstore.Store
	SMTP  email.SMTPConfig

	Identity *identity.Service
	Catalog  *catalog.Service
	Cart     *cart.Service
	Orders   *orders.Service

	Chat     *chat.Service
	Dispatch *chat.Dispatcher
	Hub      *realtime.Hub
}

func NewHandler(db *gorm.DB, cfg config.Config, rds *redisstore.Store, hub *realtime.Hub, sink notify.Sink) *Handler {
	identitySvc := identity.NewService(db)
	catalogSvc := catalog.NewService(db)
	cartSvc := cart.NewService(db, catalogSvc)
	orderSvc := orders.NewService(db, cartSvc)

	chatSvc := chat.NewService(
		chat.NewRepo(db),
		catalogLookup{svc: catalogSvc},
		partyDirectory{svc: identitySvc},
	)
	dispatcher := chat.NewDispatcher(chatSvc, hub, sink)

	return &Handler{
		Cfg:   cfg,
		Redis: rds,
		SMTP: email.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		},
		Identity: identitySvc,
		Catalog:  catalogSvc,
		Cart:     cartSvc,
		Orders:   orderSvc,
		Chat:     chatSvc,
		Dispatch: dispatcher,
		Hub:      hub,
	}
}
