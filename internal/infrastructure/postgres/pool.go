package postgres

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	"github.com/mulphico/inventory-valuation/pkg/config"
	"github.com/mulphico/inventory-valuation/pkg/logger"
)

const applicationName = "inventory-valuation"

// NewPool crea el pool sobre el modelo de lectura. Las sesiones son de solo lectura:
// el servicio nunca escribe en las tablas de inventario.
func NewPool(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	configurePool(poolConfig, cfg)
	if log != nil {
		poolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   queryLogger(log.Component("postgres")),
			LogLevel: traceLevel(log.Level()),
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// configurePool aplica tamaño, parámetros de sesión y el codec NUMERIC -> decimal.
func configurePool(pc *pgxpool.Config, cfg config.DBConfig) {
	if cfg.MaxConns > 0 {
		pc.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 && int32(cfg.MinConns) <= pc.MaxConns {
		pc.MinConns = int32(cfg.MinConns)
	}
	pc.MaxConnLifetime = time.Hour
	pc.MaxConnIdleTime = 30 * time.Minute
	pc.HealthCheckPeriod = time.Minute

	params := pc.ConnConfig.RuntimeParams
	params["application_name"] = applicationName
	params["default_transaction_read_only"] = "on"
	if cfg.StatementTimeout > 0 {
		params["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}

	if cfg.ForceIPv4 {
		pc.ConnConfig.DialFunc = dialIPv4
	}

	pc.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
}

// dialIPv4 conecta por IPv4 cuando el host lo tiene (Docker suele no tener IPv6).
// El hostname original se conserva en la config, así TLS sigue verificando el nombre.
func dialIPv4(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return d.DialContext(ctx, network, addr)
	}
	ip, err := lookupIPv4(ctx, host)
	if err != nil {
		return d.DialContext(ctx, network, addr)
	}
	return d.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
}

func lookupIPv4(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			return "", fmt.Errorf("%s es IPv6", host)
		}
		return host, nil
	}
	ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		return "", err
	}
	if len(ips) == 0 {
		return "", fmt.Errorf("%s sin IPv4", host)
	}
	return ips[0].String(), nil
}

// queryLogger lleva los eventos de pgx a zerolog. Las consultas normales salen en debug.
func queryLogger(log *logger.Logger) tracelog.Logger {
	return tracelog.LoggerFunc(func(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		var ev *zerolog.Event
		switch level {
		case tracelog.LogLevelError:
			ev = log.Error()
		case tracelog.LogLevelWarn:
			ev = log.Warn()
		case tracelog.LogLevelInfo, tracelog.LogLevelDebug:
			ev = log.Debug()
		default:
			ev = log.Trace()
		}
		ev.Fields(data).Msg(msg)
	})
}

// traceLevel evita que pgx arme eventos por consulta cuando el logger no los va a emitir.
func traceLevel(l zerolog.Level) tracelog.LogLevel {
	switch {
	case l <= zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case l <= zerolog.DebugLevel:
		return tracelog.LogLevelInfo
	default:
		return tracelog.LogLevelWarn
	}
}
