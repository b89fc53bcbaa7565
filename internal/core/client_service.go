package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClientService owns the customer registry. Deactivation is the
// right-to-be-forgotten primitive: the client flips to inactive and every sale
// that referenced them loses its attribution, in one transaction. There is no
// way back to active.
type ClientService interface {
	CreateClient(ctx context.Context, input ClientInput) (*Client, error)
	GetClient(ctx context.Context, id int64) (*Client, error)
	ListActiveClients(ctx context.Context) ([]Client, error)
	UpdateClient(ctx context.Context, id int64, input ClientInput) error
	// DeactivateClient anonymizes and deactivates. Deactivating a client that
	// is already inactive succeeds without further effect.
	DeactivateClient(ctx context.Context, id int64) error
	PurchaseHistory(ctx context.Context, id int64) (*PurchaseHistory, error)
	Statistics(ctx context.Context) (*ClientStatistics, error)
}

type clientService struct {
	pool *pgxpool.Pool
}

// NewClientService constructs a ClientService backed by PostgreSQL.
func NewClientService(pool *pgxpool.Pool) ClientService {
	return &clientService{pool: pool}
}

func (s *clientService) CreateClient(ctx context.Context, input ClientInput) (*Client, error) {
	input.Normalize()
	if err := input.Validate(true); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, storagef(err, "begin client transaction")
	}
	defer tx.Rollback(ctx)

	// Names are unique among active clients only; an anonymized client's name
	// may be reused. The partial unique index is the backstop for creates
	// racing past this check.
	var exists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM clients WHERE name = $1 AND active)", input.Name,
	).Scan(&exists); err != nil {
		return nil, storagef(err, "check client name %q", input.Name)
	}
	if exists {
		return nil, conflictf("an active client named %q already exists", input.Name)
	}

	c := &Client{}
	err = tx.QueryRow(ctx, `
		INSERT INTO clients (name, email, phone, consent)
		VALUES ($1, $2, $3, true)
		RETURNING id, name, email, phone, consent, active, created_at, updated_at`,
		input.Name, input.Email, input.Phone,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Consent, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, conflictf("an active client named %q already exists", input.Name)
		}
		return nil, storagef(err, "create client %q", input.Name)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storagef(err, "commit client creation")
	}
	return c, nil
}

func (s *clientService) GetClient(ctx context.Context, id int64) (*Client, error) {
	c := &Client{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, consent, active, created_at, updated_at
		FROM clients
		WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Consent, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundf("client %d not found", id)
		}
		return nil, storagef(err, "fetch client %d", id)
	}
	return c, nil
}

func (s *clientService) ListActiveClients(ctx context.Context) ([]Client, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, phone, consent, active, created_at, updated_at
		FROM clients
		WHERE active
		ORDER BY name`)
	if err != nil {
		return nil, storagef(err, "query clients")
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone,
			&c.Consent, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, storagef(err, "scan client")
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// UpdateClient edits name, email and phone of an active client. Consent is
// not alterable here.
func (s *clientService) UpdateClient(ctx context.Context, id int64, input ClientInput) error {
	input.Normalize()
	if err := input.Validate(false); err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE clients
		SET name = $1, email = $2, phone = $3, updated_at = NOW()
		WHERE id = $4 AND active`,
		input.Name, input.Email, input.Phone, id)
	if err != nil {
		return storagef(err, "update client %d", id)
	}
	if tag.RowsAffected() == 0 {
		return notFoundf("active client %d not found", id)
	}
	return nil
}

// DeactivateClient flips the client to inactive and clears the client
// reference on every sale that pointed to it. Sales rows are retained; only
// the attribution is severed. Both writes commit together.
func (s *clientService) DeactivateClient(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storagef(err, "begin deactivation transaction")
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE clients
		SET active = false, updated_at = NOW()
		WHERE id = $1`,
		id)
	if err != nil {
		return storagef(err, "deactivate client %d", id)
	}
	if tag.RowsAffected() == 0 {
		return notFoundf("client %d not found", id)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE sales SET client_id = NULL WHERE client_id = $1", id); err != nil {
		return storagef(err, "anonymize sales of client %d", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return storagef(err, "commit deactivation")
	}
	return nil
}

func (s *clientService) PurchaseHistory(ctx context.Context, id int64) (*PurchaseHistory, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT v.id, v.product_id, p.name, v.quantity, v.channel, v.client_id, v.sold_at
		FROM sales v
		JOIN products p ON p.id = v.product_id
		WHERE v.client_id = $1
		ORDER BY v.sold_at DESC, v.id DESC`,
		id)
	if err != nil {
		return nil, storagef(err, "query purchase history for client %d", id)
	}
	defer rows.Close()

	h := &PurchaseHistory{Client: client}
	products := map[string]bool{}
	channels := map[string]bool{}
	for rows.Next() {
		var v Sale
		if err := rows.Scan(&v.ID, &v.ProductID, &v.ProductName,
			&v.Quantity, &v.Channel, &v.ClientID, &v.SoldAt); err != nil {
			return nil, storagef(err, "scan purchase")
		}
		h.Sales = append(h.Sales, v)
		products[v.ProductName] = true
		channels[string(v.Channel)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, storagef(err, "iterate purchases")
	}

	h.PurchaseCount = len(h.Sales)
	h.ProductsBought = len(products)
	for ch := range channels {
		h.ChannelsUsed = append(h.ChannelsUsed, ch)
	}
	return h, nil
}

func (s *clientService) Statistics(ctx context.Context) (*ClientStatistics, error) {
	stats := &ClientStatistics{}

	if err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM clients WHERE active",
	).Scan(&stats.ActiveClients); err != nil {
		return nil, storagef(err, "count active clients")
	}

	if err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM clients WHERE active AND consent",
	).Scan(&stats.WithConsent); err != nil {
		return nil, storagef(err, "count consenting clients")
	}

	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.name, COUNT(v.id), SUM(v.quantity)
		FROM clients c
		JOIN sales v ON v.client_id = c.id
		WHERE c.active
		GROUP BY c.id, c.name
		ORDER BY COUNT(v.id) DESC
		LIMIT 10`)
	if err != nil {
		return nil, storagef(err, "query top buyers")
	}
	defer rows.Close()

	for rows.Next() {
		var t ClientPurchaseTotal
		if err := rows.Scan(&t.ClientID, &t.ClientName, &t.PurchaseCount, &t.TotalQuantity); err != nil {
			return nil, storagef(err, "scan top buyer")
		}
		stats.TopBuyers = append(stats.TopBuyers, t)
	}
	return stats, rows.Err()
}
