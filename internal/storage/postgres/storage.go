package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/numrent/activate/internal/domain/errors"
	"github.com/numrent/activate/internal/domain/model"
	"github.com/numrent/activate/internal/domain/repository"
)

// pgxPool is the slice of pgxpool.Pool the storage uses. Kept as an
// interface so tests can substitute a mock pool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type botRepository struct {
	storage *Storage
}

type userRepository struct {
	storage *Storage
}

type countryRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type rentRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Bots() repository.BotRepository {
	return &botRepository{storage: s}
}

func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Countries() repository.CountryRepository {
	return &countryRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Rents() repository.RentRepository {
	return &rentRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS bots (
            id SERIAL PRIMARY KEY,
            public_key TEXT UNIQUE NOT NULL,
            private_key TEXT NOT NULL,
            api_key TEXT NOT NULL,
            resource_link TEXT NOT NULL DEFAULT '',
            percent INT NOT NULL DEFAULT 0,
            category_id BIGINT NOT NULL DEFAULT 0,
            black TEXT,
            retail BOOLEAN NOT NULL DEFAULT FALSE
        )`,
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            telegram_id BIGINT UNIQUE NOT NULL,
            service TEXT NOT NULL DEFAULT '',
            language TEXT NOT NULL DEFAULT 'ru',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS countries (
            id SERIAL PRIMARY KEY,
            org_id BIGINT UNIQUE NOT NULL,
            name_ru TEXT NOT NULL DEFAULT '',
            name_en TEXT NOT NULL DEFAULT '',
            image TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            bot_id BIGINT NOT NULL REFERENCES bots(id),
            user_id BIGINT NOT NULL,
            country_id BIGINT NOT NULL DEFAULT 0,
            service TEXT NOT NULL,
            org_id BIGINT UNIQUE NOT NULL,
            phone TEXT NOT NULL,
            codes TEXT,
            is_created BOOLEAN NOT NULL DEFAULT FALSE,
            status INT NOT NULL,
            start_time BIGINT NOT NULL,
            end_time BIGINT NOT NULL,
            operator TEXT,
            price_start BIGINT NOT NULL,
            price_final BIGINT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS rent_orders (
            id SERIAL PRIMARY KEY,
            bot_id BIGINT NOT NULL REFERENCES bots(id),
            user_id BIGINT NOT NULL,
            country_id BIGINT NOT NULL DEFAULT 0,
            service TEXT NOT NULL,
            org_id BIGINT UNIQUE NOT NULL,
            phone TEXT NOT NULL,
            codes TEXT,
            codes_id BIGINT,
            codes_date BIGINT,
            status INT NOT NULL,
            start_time BIGINT NOT NULL,
            end_time BIGINT NOT NULL,
            operator TEXT,
            price_start BIGINT NOT NULL,
            price_final BIGINT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(bot_id, user_id, start_time DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_expiry ON orders(end_time) WHERE status NOT IN (8, 10)`,
		`CREATE INDEX IF NOT EXISTS idx_rent_orders_user ON rent_orders(bot_id, user_id, start_time DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_rent_orders_expiry ON rent_orders(end_time) WHERE status NOT IN (8, 10)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- BotRepository implementation ---

const botColumns = `id, public_key, private_key, api_key, resource_link, percent, category_id, black, retail`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBot(row rowScanner) (*model.Bot, error) {
	var b model.Bot
	err := row.Scan(&b.ID, &b.PublicKey, &b.PrivateKey, &b.APIKey, &b.ResourceLink, &b.Percent, &b.CategoryID, &b.Black, &b.Retail)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *botRepository) Create(ctx context.Context, bot *model.Bot) (*model.Bot, error) {
	const query = `INSERT INTO bots (public_key, private_key, api_key, resource_link, percent, category_id, black, retail)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.storage.pool.QueryRow(ctx, query,
		bot.PublicKey, bot.PrivateKey, bot.APIKey, bot.ResourceLink,
		bot.Percent, bot.CategoryID, bot.Black, bot.Retail,
	).Scan(&bot.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return bot, nil
}

func (r *botRepository) GetByID(ctx context.Context, id int64) (*model.Bot, error) {
	query := `SELECT ` + botColumns + ` FROM bots WHERE id=$1`
	b, err := scanBot(r.storage.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domainErrors.ErrNotFound
	}
	return b, err
}

func (r *botRepository) GetByPublicKey(ctx context.Context, publicKey string) (*model.Bot, error) {
	query := `SELECT ` + botColumns + ` FROM bots WHERE public_key=$1`
	b, err := scanBot(r.storage.pool.QueryRow(ctx, query, publicKey))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domainErrors.ErrNotFound
	}
	return b, err
}

func (r *botRepository) Update(ctx context.Context, bot *model.Bot) error {
	const query = `UPDATE bots SET private_key=$2, api_key=$3, resource_link=$4, percent=$5, category_id=$6, black=$7, retail=$8
                   WHERE public_key=$1`
	tag, err := r.storage.pool.Exec(ctx, query,
		bot.PublicKey, bot.PrivateKey, bot.APIKey, bot.ResourceLink,
		bot.Percent, bot.CategoryID, bot.Black, bot.Retail,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *botRepository) Delete(ctx context.Context, publicKey string) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM bots WHERE public_key=$1`, publicKey)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) GetOrCreate(ctx context.Context, telegramID int64) (*model.User, error) {
	const insert = `INSERT INTO users (telegram_id) VALUES ($1)
                    ON CONFLICT (telegram_id) DO NOTHING
                    RETURNING id, telegram_id, service, language, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, insert, telegramID).Scan(&u.ID, &u.TelegramID, &u.Service, &u.Language, &u.CreatedAt)
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return r.GetByTelegramID(ctx, telegramID)
}

func (r *userRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	const query = `SELECT id, telegram_id, service, language, created_at FROM users WHERE telegram_id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, telegramID).Scan(&u.ID, &u.TelegramID, &u.Service, &u.Language, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) SetService(ctx context.Context, telegramID int64, service string) error {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE users SET service=$2 WHERE telegram_id=$1`, telegramID, service)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) SetLanguage(ctx context.Context, telegramID int64, language string) error {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE users SET language=$2 WHERE telegram_id=$1`, telegramID, language)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- CountryRepository implementation ---

func (r *countryRepository) GetByOrgID(ctx context.Context, orgID int64) (*model.Country, error) {
	const query = `SELECT id, org_id, name_ru, name_en, image FROM countries WHERE org_id=$1`
	var c model.Country
	err := r.storage.pool.QueryRow(ctx, query, orgID).Scan(&c.ID, &c.OrgID, &c.NameRu, &c.NameEn, &c.Image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *countryRepository) List(ctx context.Context) ([]model.Country, error) {
	const query = `SELECT id, org_id, name_ru, name_en, image FROM countries ORDER BY org_id`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Country
	for rows.Next() {
		var c model.Country
		if err := rows.Scan(&c.ID, &c.OrgID, &c.NameRu, &c.NameEn, &c.Image); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *countryRepository) Upsert(ctx context.Context, country *model.Country) error {
	const query = `INSERT INTO countries (org_id, name_ru, name_en, image)
                   VALUES ($1, $2, $3, $4)
                   ON CONFLICT (org_id) DO UPDATE SET name_ru=EXCLUDED.name_ru, name_en=EXCLUDED.name_en`
	_, err := r.storage.pool.Exec(ctx, query, country.OrgID, country.NameRu, country.NameEn, country.Image)
	return err
}

func (r *countryRepository) UpdateImage(ctx context.Context, orgID int64, image string) error {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE countries SET image=$2 WHERE org_id=$1`, orgID, image)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- OrderRepository implementation ---

const orderColumns = `id, bot_id, user_id, country_id, service, org_id, phone, codes, is_created, status, start_time, end_time, operator, price_start, price_final`

func scanOrder(row rowScanner) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.BotID, &o.UserID, &o.CountryID, &o.Service, &o.OrgID, &o.Phone, &o.Codes,
		&o.IsCreated, &o.Status, &o.StartTime, &o.EndTime, &o.Operator, &o.PriceStart, &o.PriceFinal)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (bot_id, user_id, country_id, service, org_id, phone, codes, is_created, status, start_time, end_time, operator, price_start, price_final)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	err := r.storage.pool.QueryRow(ctx, query,
		order.BotID, order.UserID, order.CountryID, order.Service, order.OrgID, order.Phone,
		order.Codes, order.IsCreated, order.Status, order.StartTime, order.EndTime,
		order.Operator, order.PriceStart, order.PriceFinal,
	).Scan(&order.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByOrgID(ctx context.Context, orgID int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE org_id=$1`
	o, err := scanOrder(r.storage.pool.QueryRow(ctx, query, orgID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domainErrors.ErrNotFound
	}
	return o, err
}

func (r *orderRepository) ListByUser(ctx context.Context, botID, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE bot_id=$1 AND user_id=$2 ORDER BY start_time DESC`
	rows, err := r.storage.pool.Query(ctx, query, botID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) Mutate(ctx context.Context, orgID int64, fn func(*model.Order) (bool, error)) (*model.Order, error) {
	var result *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		query := `SELECT ` + orderColumns + ` FROM orders WHERE org_id=$1 FOR UPDATE`
		o, err := scanOrder(tx.QueryRow(ctx, query, orgID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		save, err := fn(o)
		if err != nil {
			return err
		}
		if save {
			const update = `UPDATE orders SET codes=$2, is_created=$3, status=$4, end_time=$5, operator=$6, price_final=$7
                            WHERE org_id=$1`
			if _, err := tx.Exec(ctx, update, orgID, o.Codes, o.IsCreated, o.Status, o.EndTime, o.Operator, o.PriceFinal); err != nil {
				return err
			}
		}
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ForceCancelWaiting(ctx context.Context, orgID int64) (bool, error) {
	const query = `UPDATE orders SET status=$2 WHERE org_id=$1 AND status=$3`
	tag, err := r.storage.pool.Exec(ctx, query, orgID, model.OrderStatusCancel, model.OrderStatusWaitCode)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *orderRepository) SelectExpired(ctx context.Context, now int64, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE status NOT IN ($1, $2) AND end_time <= $3
              ORDER BY end_time
              LIMIT $4
              FOR UPDATE SKIP LOCKED`

	var orders []model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, model.OrderStatusCancel, model.OrderStatusFinish, now, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			o, err := scanOrder(rows)
			if err != nil {
				return err
			}
			orders = append(orders, *o)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// --- RentRepository implementation ---

const rentColumns = `id, bot_id, user_id, country_id, service, org_id, phone, codes, codes_id, codes_date, status, start_time, end_time, operator, price_start, price_final`

func scanRent(row rowScanner) (*model.RentOrder, error) {
	var o model.RentOrder
	err := row.Scan(&o.ID, &o.BotID, &o.UserID, &o.CountryID, &o.Service, &o.OrgID, &o.Phone, &o.Codes,
		&o.CodesID, &o.CodesDate, &o.Status, &o.StartTime, &o.EndTime, &o.Operator, &o.PriceStart, &o.PriceFinal)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *rentRepository) Create(ctx context.Context, rent *model.RentOrder) (*model.RentOrder, error) {
	const query = `INSERT INTO rent_orders (bot_id, user_id, country_id, service, org_id, phone, codes, codes_id, codes_date, status, start_time, end_time, operator, price_start, price_final)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
	err := r.storage.pool.QueryRow(ctx, query,
		rent.BotID, rent.UserID, rent.CountryID, rent.Service, rent.OrgID, rent.Phone,
		rent.Codes, rent.CodesID, rent.CodesDate, rent.Status, rent.StartTime, rent.EndTime,
		rent.Operator, rent.PriceStart, rent.PriceFinal,
	).Scan(&rent.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return rent, nil
}

func (r *rentRepository) GetByOrgID(ctx context.Context, orgID int64) (*model.RentOrder, error) {
	query := `SELECT ` + rentColumns + ` FROM rent_orders WHERE org_id=$1`
	o, err := scanRent(r.storage.pool.QueryRow(ctx, query, orgID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domainErrors.ErrNotFound
	}
	return o, err
}

func (r *rentRepository) ListByUser(ctx context.Context, botID, userID int64) ([]model.RentOrder, error) {
	query := `SELECT ` + rentColumns + ` FROM rent_orders WHERE bot_id=$1 AND user_id=$2 ORDER BY start_time DESC`
	rows, err := r.storage.pool.Query(ctx, query, botID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.RentOrder
	for rows.Next() {
		o, err := scanRent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *rentRepository) Mutate(ctx context.Context, orgID int64, fn func(*model.RentOrder) (bool, error)) (*model.RentOrder, error) {
	var result *model.RentOrder
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		query := `SELECT ` + rentColumns + ` FROM rent_orders WHERE org_id=$1 FOR UPDATE`
		o, err := scanRent(tx.QueryRow(ctx, query, orgID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		save, err := fn(o)
		if err != nil {
			return err
		}
		if save {
			const update = `UPDATE rent_orders SET codes=$2, codes_id=$3, codes_date=$4, status=$5, end_time=$6, price_final=$7
                            WHERE org_id=$1`
			if _, err := tx.Exec(ctx, update, orgID, o.Codes, o.CodesID, o.CodesDate, o.Status, o.EndTime, o.PriceFinal); err != nil {
				return err
			}
		}
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *rentRepository) UpdateCodes(ctx context.Context, orgID int64, codes string, codesID, codesDate int64) error {
	const query = `UPDATE rent_orders SET codes=$2, codes_id=$3, codes_date=$4 WHERE org_id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, orgID, codes, codesID, codesDate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *rentRepository) ExtendEndTime(ctx context.Context, orgID int64, endTime int64) error {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE rent_orders SET end_time=$2 WHERE org_id=$1`, orgID, endTime)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *rentRepository) SelectExpired(ctx context.Context, now int64, limit int) ([]model.RentOrder, error) {
	query := `SELECT ` + rentColumns + ` FROM rent_orders
              WHERE status NOT IN ($1, $2) AND end_time <= $3
              ORDER BY end_time
              LIMIT $4
              FOR UPDATE SKIP LOCKED`

	var rents []model.RentOrder
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, model.OrderStatusCancel, model.OrderStatusFinish, now, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			o, err := scanRent(rows)
			if err != nil {
				return err
			}
			rents = append(rents, *o)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return rents, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
