package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/fanwaves/internal/health"
)

// opsServer: запущенный ops-сервер и его фактический адрес.
type opsServer struct {
	*http.Server
	addr string
}

// startOpsServer поднимает /metrics, /healthz, /livez и /readyz.
// Сервер останавливается при отмене ctx.
func startOpsServer(
	ctx context.Context,
	addr string,
	logger *log.Entry,
	gatherer prometheus.Gatherer,
	healthHandler *healthcheck.Handler,
) (*opsServer, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen ops server on %s: %w", addr, err)
	}

	srv := &opsServer{
		Server: &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		addr:   lis.Addr().String(),
	}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", srv.addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", srv.addr, srv.addr, srv.addr)
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("ops server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv, nil
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *opsServer, logger *log.Entry) {
	if srv == nil || srv.Server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("ops server shutdown with error")
	}
}
