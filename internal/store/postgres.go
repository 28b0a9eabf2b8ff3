package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/firewatch/burn-data-service/internal/domain"
)

// Postgres is the pgx-backed Store.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects a pgx pool and ensures the schema exists.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	p := &Postgres{pool: pool}
	if err := p.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// CheckReadiness pings the database.
func (p *Postgres) CheckReadiness(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close releases the pool resources.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

const schemaSQL = `
    CREATE TABLE IF NOT EXISTS fires (
        id         SERIAL PRIMARY KEY,
        name       TEXT NOT NULL,
        acres      DOUBLE PRECISION NOT NULL,
        latitude   DOUBLE PRECISION NOT NULL,
        longitude  DOUBLE PRECISION NOT NULL,
        burn_type  TEXT NOT NULL,
        county     TEXT NOT NULL,
        source     TEXT NOT NULL,
        year       INTEGER NOT NULL,
        month      INTEGER,
        day        INTEGER,
        owner      TEXT NOT NULL,
        severity   DOUBLE PRECISION
    );
    CREATE INDEX IF NOT EXISTS fires_source_idx ON fires (source);
    CREATE INDEX IF NOT EXISTS fires_county_idx ON fires (county);
    CREATE INDEX IF NOT EXISTS fires_year_idx ON fires (year);

    CREATE TABLE IF NOT EXISTS escaped_fires (
        id             SERIAL PRIMARY KEY,
        name           TEXT NOT NULL,
        acres          DOUBLE PRECISION NOT NULL,
        latitude       DOUBLE PRECISION NOT NULL,
        longitude      DOUBLE PRECISION NOT NULL,
        treatment_type TEXT NOT NULL,
        county_unit_id TEXT NOT NULL,
        counties       TEXT NOT NULL,
        source         TEXT NOT NULL,
        year           INTEGER NOT NULL,
        month          INTEGER,
        day            INTEGER,
        owner          TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS escaped_fires_year_idx ON escaped_fires (year);
`

func (p *Postgres) ensureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const insertFireSQL = `
    INSERT INTO fires (name, acres, latitude, longitude, burn_type, county, source, year, month, day, owner, severity)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    RETURNING id
`

const selectFiresSQL = `
    SELECT id, name, acres, latitude, longitude, burn_type, county, source, year, month, day, owner, severity
    FROM fires
`

func (p *Postgres) PersistFire(ctx context.Context, fire domain.Fire) (domain.Fire, error) {
	row := p.pool.QueryRow(ctx, insertFireSQL,
		fire.Name, fire.Acres, fire.Latitude, fire.Longitude, fire.BurnType,
		fire.County, fire.Source, fire.Year, fire.Month, fire.Day, fire.Owner, fire.Severity,
	)
	if err := row.Scan(&fire.ID); err != nil {
		return domain.Fire{}, fmt.Errorf("persist fire: %w", err)
	}
	return fire, nil
}

// PersistFires bulk-inserts a batch in one round trip. A mid-batch failure
// can leave earlier rows persisted; the service accepts partial persistence.
func (p *Postgres) PersistFires(ctx context.Context, fires []domain.Fire) error {
	batch := &pgx.Batch{}
	for _, fire := range fires {
		batch.Queue(insertFireSQL,
			fire.Name, fire.Acres, fire.Latitude, fire.Longitude, fire.BurnType,
			fire.County, fire.Source, fire.Year, fire.Month, fire.Day, fire.Owner, fire.Severity,
		)
	}
	if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("persist fires: %w", err)
	}
	return nil
}

func (p *Postgres) FindAllFires(ctx context.Context) ([]domain.Fire, error) {
	return p.queryFires(ctx, selectFiresSQL+" ORDER BY id", nil)
}

func (p *Postgres) FindFires(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Fire, error) {
	where, args := buildFireWhere(criteria)
	return p.queryFires(ctx, selectFiresSQL+where+" ORDER BY id", args)
}

func (p *Postgres) queryFires(ctx context.Context, sql string, args []any) ([]domain.Fire, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query fires: %w", err)
	}
	defer rows.Close()

	fires := make([]domain.Fire, 0)
	for rows.Next() {
		var f domain.Fire
		if err := rows.Scan(
			&f.ID, &f.Name, &f.Acres, &f.Latitude, &f.Longitude, &f.BurnType,
			&f.County, &f.Source, &f.Year, &f.Month, &f.Day, &f.Owner, &f.Severity,
		); err != nil {
			return nil, fmt.Errorf("scan fire: %w", err)
		}
		fires = append(fires, f)
	}
	return fires, rows.Err()
}

const insertEscapeSQL = `
    INSERT INTO escaped_fires (name, acres, latitude, longitude, treatment_type, county_unit_id, counties, source, year, month, day, owner)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    RETURNING id
`

const selectEscapesSQL = `
    SELECT id, name, acres, latitude, longitude, treatment_type, county_unit_id, counties, source, year, month, day, owner
    FROM escaped_fires
`

func (p *Postgres) PersistEscape(ctx context.Context, esc domain.EscapedFire) (domain.EscapedFire, error) {
	row := p.pool.QueryRow(ctx, insertEscapeSQL,
		esc.Name, esc.Acres, esc.Latitude, esc.Longitude, esc.TreatmentType,
		esc.CountyUnitID, esc.Counties, esc.Source, esc.Year, esc.Month, esc.Day, esc.Owner,
	)
	if err := row.Scan(&esc.ID); err != nil {
		return domain.EscapedFire{}, fmt.Errorf("persist escape: %w", err)
	}
	return esc, nil
}

func (p *Postgres) PersistEscapes(ctx context.Context, escapes []domain.EscapedFire) error {
	batch := &pgx.Batch{}
	for _, esc := range escapes {
		batch.Queue(insertEscapeSQL,
			esc.Name, esc.Acres, esc.Latitude, esc.Longitude, esc.TreatmentType,
			esc.CountyUnitID, esc.Counties, esc.Source, esc.Year, esc.Month, esc.Day, esc.Owner,
		)
	}
	if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("persist escapes: %w", err)
	}
	return nil
}

func (p *Postgres) FindAllEscapes(ctx context.Context) ([]domain.EscapedFire, error) {
	return p.queryEscapes(ctx, selectEscapesSQL+" ORDER BY id", nil)
}

func (p *Postgres) FindEscapes(ctx context.Context, criteria domain.FilterCriteria) ([]domain.EscapedFire, error) {
	where, args := buildEscapeWhere(criteria)
	return p.queryEscapes(ctx, selectEscapesSQL+where+" ORDER BY id", args)
}

func (p *Postgres) queryEscapes(ctx context.Context, sql string, args []any) ([]domain.EscapedFire, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query escapes: %w", err)
	}
	defer rows.Close()

	escapes := make([]domain.EscapedFire, 0)
	for rows.Next() {
		var e domain.EscapedFire
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Acres, &e.Latitude, &e.Longitude, &e.TreatmentType,
			&e.CountyUnitID, &e.Counties, &e.Source, &e.Year, &e.Month, &e.Day, &e.Owner,
		); err != nil {
			return nil, fmt.Errorf("scan escape: %w", err)
		}
		escapes = append(escapes, e)
	}
	return escapes, rows.Err()
}

// whereBuilder appends a clause with positional placeholders only when the
// corresponding criteria field is present.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (b *whereBuilder) add(expr string, arg any) {
	b.clauses = append(b.clauses, fmt.Sprintf(expr, len(b.args)+1))
	b.args = append(b.args, arg)
}

func (b *whereBuilder) where() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}

// buildFireWhere translates criteria into the fire predicate. Month and
// severity bounds are deliberately not evaluated here; both year bounds are
// lower bounds. See domain.FilterCriteria.
func buildFireWhere(c domain.FilterCriteria) (string, []any) {
	b := &whereBuilder{}
	if c.Source != nil {
		b.add("source = $%d", *c.Source)
	}
	if c.County != nil {
		b.add("county = $%d", *c.County)
	}
	if c.BurnType != nil {
		b.add("burn_type = $%d", *c.BurnType)
	}
	if c.Owner != nil {
		b.add("owner = $%d", *c.Owner)
	}
	if c.MinAcres != nil {
		b.add("acres >= $%d", *c.MinAcres)
	}
	if c.MaxAcres != nil {
		b.add("acres < $%d", *c.MaxAcres)
	}
	if c.StartYear != nil {
		b.add("year >= $%d", *c.StartYear)
	}
	if c.EndYear != nil {
		b.add("year >= $%d", *c.EndYear)
	}
	return b.where(), b.args
}

// buildEscapeWhere translates criteria into the escaped-fire predicate,
// which additionally evaluates month bounds (both as lower bounds; NULL
// months never match a month bound).
func buildEscapeWhere(c domain.FilterCriteria) (string, []any) {
	b := &whereBuilder{}
	if c.Source != nil {
		b.add("source = $%d", *c.Source)
	}
	if c.Counties != nil {
		b.add("counties = $%d", *c.Counties)
	}
	if c.CountyUnitID != nil {
		b.add("county_unit_id = $%d", *c.CountyUnitID)
	}
	if c.TreatmentType != nil {
		b.add("treatment_type = $%d", *c.TreatmentType)
	}
	if c.Owner != nil {
		b.add("owner = $%d", *c.Owner)
	}
	if c.MinAcres != nil {
		b.add("acres >= $%d", *c.MinAcres)
	}
	if c.MaxAcres != nil {
		b.add("acres < $%d", *c.MaxAcres)
	}
	if c.StartYear != nil {
		b.add("year >= $%d", *c.StartYear)
	}
	if c.EndYear != nil {
		b.add("year >= $%d", *c.EndYear)
	}
	if c.StartMonth != nil {
		b.add("month >= $%d", *c.StartMonth)
	}
	if c.EndMonth != nil {
		b.add("month >= $%d", *c.EndMonth)
	}
	return b.where(), b.args
}
