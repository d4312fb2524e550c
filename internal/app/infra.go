package app

import (
	"context"
	"errors"
	"os"

	"github.com/bogdanSgithub/autovitals-backend/internal/config"
	"github.com/bogdanSgithub/autovitals-backend/internal/db"
	"github.com/bogdanSgithub/autovitals-backend/internal/email"
	"github.com/bogdanSgithub/autovitals-backend/internal/logger"
)

type Infra struct {
	DB       *db.DB
	VisitLog *os.File
	Mail     email.Sender
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	database, err := db.Connect(ctx, cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx, database.Database); err != nil {
		_ = database.Close(context.Background())
		return nil, err
	}

	logger.Info("database ready", map[string]any{
		"database": cfg.MongoDatabase,
	})

	visitLog, err := logger.OpenAppend(cfg.VisitLogFile)
	if err != nil {
		_ = database.Close(context.Background())
		return nil, err
	}

	var mail email.Sender = email.LogSender{}
	if cfg.EmailFrom != "" {
		mail = email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailFrom, cfg.EmailAppPassword)
		logger.Info("smtp sender ready", map[string]any{
			"host": cfg.SMTPHost,
			"port": cfg.SMTPPort,
		})
	} else {
		logger.Warn("EMAIL not set, reminders will only be logged", nil)
	}

	return &Infra{
		DB:       database,
		VisitLog: visitLog,
		Mail:     mail,
	}, nil
}

func (i *Infra) Close(ctx context.Context) error {
	return errors.Join(
		i.VisitLog.Close(),
		i.DB.Close(ctx),
	)
}
