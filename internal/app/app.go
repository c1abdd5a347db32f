package app

import (
	"time"

	"github.com/reelmatch/core/internal/config"
	http_init "github.com/reelmatch/core/internal/delivery/http/init"
	http_access_middleware "github.com/reelmatch/core/internal/delivery/http/middleware/access"
	http_auth_middleware "github.com/reelmatch/core/internal/delivery/http/middleware/auth"
	http_session "github.com/reelmatch/core/internal/delivery/http/session"
	http_swagger "github.com/reelmatch/core/internal/delivery/http/swagger"
	http_voting "github.com/reelmatch/core/internal/delivery/http/voting"
	infra_catalog "github.com/reelmatch/core/internal/infra/catalog"
	infra_pg_init "github.com/reelmatch/core/internal/infra/postgres/init"
	infra_postgres_session "github.com/reelmatch/core/internal/infra/postgres/session"
	infra_redis_init "github.com/reelmatch/core/internal/infra/redis/init"
	infra_token_cache "github.com/reelmatch/core/internal/infra/redis/token"
	service_identity "github.com/reelmatch/core/internal/service/identity"
	usecase_session "github.com/reelmatch/core/internal/usecase/session"
	usecase_vote "github.com/reelmatch/core/internal/usecase/vote"
)

func Go(cfg *config.Config) {
	redisConn := infra_redis_init.MustEstablishConn(cfg.Redis)
	pgConn := infra_pg_init.MustEstablishConn(cfg.Postgres)

	sessionRepository := infra_postgres_session.New(pgConn)
	catalogClient := infra_catalog.New(cfg.Catalog.BaseURL)

	tokenCache := infra_token_cache.New(redisConn, "token_cache")
	identity := service_identity.New(tokenCache, time.Duration(cfg.Matching.TokenTTLMinutes)*time.Minute)
	authMiddleware := http_auth_middleware.New(identity)

	sessionUC := usecase_session.New(sessionRepository, catalogClient)
	voteUC := usecase_vote.New(sessionRepository, cfg.Matching.MinSwipes)

	controllerPool := http_init.NewControllerPool(
		http_access_middleware.ReadOnlyBadGatewayMiddleware(cfg.HTTP.Mode),
	)
	controllerPool.Add(http_swagger.New())
	controllerPool.Add(http_session.New(sessionUC, identity, authMiddleware))
	controllerPool.Add(http_voting.New(voteUC, authMiddleware))

	controllerPool.Register()
	controllerPool.RunAll(cfg.HTTP.Port)
}
