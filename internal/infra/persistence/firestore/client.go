package firestore

import (
	"context"
	"log/slog"

	"authgate/config"
	"authgate/internal/domain/lifecycle"
	"authgate/internal/errors"

	firestoreLib "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"go.uber.org/fx"
	"google.golang.org/api/option"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New initializes the Firebase app and returns its Firestore client. The
// users collection is probed once when the application starts.
func New(params Params) (*firestoreLib.Client, error) {
	fbCfg := params.Config.Firebase
	if fbCfg == nil {
		return nil, errors.New("firebase configuration is required for the firestore store")
	}

	var opts []option.ClientOption
	if fbCfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(fbCfg.CredentialsPath))
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: fbCfg.ProjectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Firestore client")
	}

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if _, err := client.Collection(fbCfg.UsersCollection).Limit(1).Documents(ctx).GetAll(); err != nil {
				return errors.Wrap(err, "failed to reach Firestore")
			}
			params.Logger.Info("Firestore client ready",
				slog.String("projectId", fbCfg.ProjectID),
				slog.String("usersCollection", fbCfg.UsersCollection),
			)

			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}
