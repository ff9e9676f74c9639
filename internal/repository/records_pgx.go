package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plugilode/corpintel/internal/dto"
	"github.com/plugilode/corpintel/internal/entity"
)

const recordColumns = `
            id,
            name,
            status,
            level,
            last_accessed,
            subject,
            details,
            required_clearance,
            address,
            zip_code,
            city,
            country,
            logo,
            description,
            source_found,
            ceo,
            tax_id,
            images,
            categories,
            previous_ceos,
            languages,
            tags,
            social_media,
            metrics,
            verification_status,
            created_at,
            updated_at`

// PGXRecordsRepository implements RecordsRepository on PostgreSQL. Structured
// fields (tags, social media, metrics, the verification ledger) live in jsonb
// columns; ledger writes run inside a transaction with a row lock so every
// mutation stays atomic.
type PGXRecordsRepository struct {
	pool pgxPool
}

// NewPGXRecordsRepository wires a pgx backed records repository.
func NewPGXRecordsRepository(pool *pgxpool.Pool) *PGXRecordsRepository {
	return &PGXRecordsRepository{pool: pool}
}

// GetAll fetches the full catalogue in insertion order.
func (r *PGXRecordsRepository) GetAll(ctx context.Context) ([]entity.Record, error) {
	query := "SELECT " + recordColumns + " FROM records ORDER BY created_at ASC, id ASC"
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetByID fetches a single record or ErrRecordNotFound.
func (r *PGXRecordsRepository) GetByID(ctx context.Context, id string) (*entity.Record, error) {
	query := "SELECT " + recordColumns + " FROM records WHERE id = $1"
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("fetch record: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrRecordNotFound
	}
	return &records[0], nil
}

const insertRecordSQL = `
        INSERT INTO records (
            id, name, status, level, last_accessed, subject, details,
            required_clearance, address, zip_code, city, country, logo,
            description, source_found, ceo, tax_id, images, categories,
            previous_ceos, languages, tags, social_media, metrics,
            verification_status, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
            $14, $15, $16, $17, $18, $19, $20, $21, $22::jsonb, $23::jsonb,
            $24::jsonb, $25::jsonb, NOW()
        )`

// Add inserts a new record. A duplicate id maps to ErrDuplicateID.
func (r *PGXRecordsRepository) Add(ctx context.Context, record *entity.Record) error {
	if record == nil {
		return fmt.Errorf("record payload is nil")
	}
	if record.ID == "" {
		return fmt.Errorf("record id must not be empty")
	}

	args, err := recordInsertArgs(record)
	if err != nil {
		return err
	}

	if _, err := r.pool.Exec(ctx, insertRecordSQL, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("add record %s: %w", record.ID, ErrDuplicateID)
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// Update applies the patch inside a transaction. The row is locked for the
// read-modify-write so concurrent editors cannot interleave.
func (r *PGXRecordsRepository) Update(ctx context.Context, id string, patch dto.RecordPatch) (*entity.Record, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("start update tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := "SELECT " + recordColumns + " FROM records WHERE id = $1 FOR UPDATE"
	rows, err := tx.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("lock record: %w", err)
	}
	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrRecordNotFound
	}

	rec := records[0]
	changed := applyPatch(&rec, patch)
	if len(changed) == 0 {
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit update tx: %w", err)
		}
		return &rec, nil
	}
	resetVerification(&rec, changed)

	args, err := recordInsertArgs(&rec)
	if err != nil {
		return nil, err
	}

	updateSQL := `
        UPDATE records SET
            name = $2, status = $3, level = $4, last_accessed = $5,
            subject = $6, details = $7, required_clearance = $8, address = $9,
            zip_code = $10, city = $11, country = $12, logo = $13,
            description = $14, source_found = $15, ceo = $16, tax_id = $17,
            images = $18, categories = $19, previous_ceos = $20,
            languages = $21, tags = $22::jsonb, social_media = $23::jsonb,
            metrics = $24::jsonb, verification_status = $25::jsonb,
            updated_at = NOW()
        WHERE id = $1`
	if _, err := tx.Exec(ctx, updateSQL, args...); err != nil {
		return nil, fmt.Errorf("update record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update tx: %w", err)
	}
	return &rec, nil
}

// NextID allocates the next free CORP-NNNN identifier.
func (r *PGXRecordsRepository) NextID(ctx context.Context) (string, error) {
	query := `
        SELECT COALESCE(MAX(NULLIF(split_part(id, '-', 2), '')::int), 0)
        FROM records
        WHERE id LIKE 'CORP-%'`

	var highest int
	if err := r.pool.QueryRow(ctx, query).Scan(&highest); err != nil {
		return "", fmt.Errorf("allocate record id: %w", err)
	}
	return FormatRecordID(highest + 1), nil
}

// AppendVerification writes one ledger entry with a row lock held.
func (r *PGXRecordsRepository) AppendVerification(ctx context.Context, recordID, fieldName string, entry entity.VerificationEntry) (*entity.FieldVerification, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("start verification tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx, `SELECT verification_status FROM records WHERE id = $1 FOR UPDATE`, recordID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("lock record for verification: %w", err)
	}

	status := make(map[string]*entity.FieldVerification)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &status); err != nil {
			return nil, fmt.Errorf("unmarshal verification status: %w", err)
		}
	}

	fieldStatus, ok := status[fieldName]
	if !ok || fieldStatus == nil {
		fieldStatus = &entity.FieldVerification{}
		status[fieldName] = fieldStatus
	}
	fieldStatus.Apply(entry)

	encoded, err := json.Marshal(status)
	if err != nil {
		return nil, fmt.Errorf("marshal verification status: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE records SET verification_status = $2::jsonb, updated_at = NOW() WHERE id = $1`, recordID, string(encoded)); err != nil {
		return nil, fmt.Errorf("store verification status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit verification tx: %w", err)
	}
	return fieldStatus.Clone(), nil
}

const bulkImportSQL = `
        INSERT INTO records (
            id, name, status, level, last_accessed, subject, details,
            required_clearance, address, zip_code, city, country, logo,
            description, source_found, ceo, tax_id, images, categories,
            previous_ceos, languages, tags, social_media, metrics,
            verification_status, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
            $14, $15, $16, $17, $18, $19, $20, $21, $22::jsonb, $23::jsonb,
            $24::jsonb, $25::jsonb, NOW()
        )
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name,
            subject = EXCLUDED.subject,
            description = EXCLUDED.description,
            ceo = EXCLUDED.ceo,
            address = EXCLUDED.address,
            zip_code = EXCLUDED.zip_code,
            city = EXCLUDED.city,
            country = EXCLUDED.country,
            categories = EXCLUDED.categories,
            tags = EXCLUDED.tags,
            social_media = EXCLUDED.social_media,
            updated_at = NOW()
        RETURNING xmax = 0;
    `

// BulkImport upserts a batch of records keyed by id, reporting how many rows
// were freshly inserted versus replaced.
func (r *PGXRecordsRepository) BulkImport(ctx context.Context, records []entity.Record) (BulkImportResult, error) {
	var result BulkImportResult
	if len(records) == 0 {
		return result, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return result, fmt.Errorf("start bulk import tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range records {
		rec := records[i]
		if rec.ID == "" {
			return result, fmt.Errorf("bulk import record %q: id must not be empty", rec.Name)
		}
		args, err := recordInsertArgs(&rec)
		if err != nil {
			return result, err
		}

		var inserted bool
		if err := tx.QueryRow(ctx, bulkImportSQL, args...).Scan(&inserted); err != nil {
			return result, fmt.Errorf("bulk import record %s: %w", rec.ID, err)
		}
		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
		result.Total++
	}

	if err := tx.Commit(ctx); err != nil {
		return result, fmt.Errorf("commit bulk import tx: %w", err)
	}
	return result, nil
}

func recordInsertArgs(record *entity.Record) ([]any, error) {
	tagsJSON, err := json.Marshal(record.Tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	socialJSON, err := json.Marshal(record.SocialMedia)
	if err != nil {
		return nil, fmt.Errorf("marshal social media: %w", err)
	}

	metricsJSON := []byte("null")
	if record.Metrics != nil {
		metricsJSON, err = json.Marshal(record.Metrics)
		if err != nil {
			return nil, fmt.Errorf("marshal metrics: %w", err)
		}
	}

	verification := record.VerificationStatus
	if verification == nil {
		verification = map[string]*entity.FieldVerification{}
	}
	verificationJSON, err := json.Marshal(verification)
	if err != nil {
		return nil, fmt.Errorf("marshal verification status: %w", err)
	}

	return []any{
		record.ID,
		record.Name,
		textOrNil(record.Status),
		textOrNil(record.Level),
		textOrNil(record.LastAccessed),
		textOrNil(record.Subject),
		textOrNil(record.Details),
		textOrNil(record.RequiredClearance),
		textOrNil(record.Address),
		textOrNil(record.ZipCode),
		textOrNil(record.City),
		textOrNil(record.Country),
		textOrNil(record.Logo),
		textOrNil(record.Description),
		textOrNil(record.SourceFound),
		textOrNil(record.CEO),
		textOrNil(record.TaxID),
		sliceOrEmpty(record.Images),
		sliceOrEmpty(record.Categories),
		sliceOrEmpty(record.PreviousCEOs),
		sliceOrEmpty(record.Languages),
		string(tagsJSON),
		string(socialJSON),
		string(metricsJSON),
		string(verificationJSON),
	}, nil
}

func scanRecords(rows pgx.Rows) ([]entity.Record, error) {
	var records []entity.Record
	for rows.Next() {
		var (
			rec               entity.Record
			status            sql.NullString
			level             sql.NullString
			lastAccessed      sql.NullString
			subject           sql.NullString
			details           sql.NullString
			requiredClearance sql.NullString
			address           sql.NullString
			zipCode           sql.NullString
			city              sql.NullString
			country           sql.NullString
			logo              sql.NullString
			description       sql.NullString
			sourceFound       sql.NullString
			ceo               sql.NullString
			taxID             sql.NullString
			images            []string
			categories        []string
			previousCEOs      []string
			languages         []string
			tagsJSON          []byte
			socialJSON        []byte
			metricsJSON       []byte
			verificationJSON  []byte
		)

		err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&status,
			&level,
			&lastAccessed,
			&subject,
			&details,
			&requiredClearance,
			&address,
			&zipCode,
			&city,
			&country,
			&logo,
			&description,
			&sourceFound,
			&ceo,
			&taxID,
			&images,
			&categories,
			&previousCEOs,
			&languages,
			&tagsJSON,
			&socialJSON,
			&metricsJSON,
			&verificationJSON,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		rec.Status = status.String
		rec.Level = level.String
		rec.LastAccessed = lastAccessed.String
		rec.Subject = subject.String
		rec.Details = details.String
		rec.RequiredClearance = requiredClearance.String
		rec.Address = address.String
		rec.ZipCode = zipCode.String
		rec.City = city.String
		rec.Country = country.String
		rec.Logo = logo.String
		rec.Description = description.String
		rec.SourceFound = sourceFound.String
		rec.CEO = ceo.String
		rec.TaxID = taxID.String
		rec.Images = images
		rec.Categories = categories
		rec.PreviousCEOs = previousCEOs
		rec.Languages = languages

		if len(tagsJSON) > 0 {
			if err := json.Unmarshal(tagsJSON, &rec.Tags); err != nil {
				return nil, fmt.Errorf("unmarshal tags: %w", err)
			}
		}
		if len(socialJSON) > 0 {
			if err := json.Unmarshal(socialJSON, &rec.SocialMedia); err != nil {
				return nil, fmt.Errorf("unmarshal social media: %w", err)
			}
		}
		if len(metricsJSON) > 0 && !strings.EqualFold(string(metricsJSON), "null") {
			rec.Metrics = &entity.CompanyMetrics{}
			if err := json.Unmarshal(metricsJSON, rec.Metrics); err != nil {
				return nil, fmt.Errorf("unmarshal metrics: %w", err)
			}
		}
		if len(verificationJSON) > 0 && !strings.EqualFold(string(verificationJSON), "null") {
			if err := json.Unmarshal(verificationJSON, &rec.VerificationStatus); err != nil {
				return nil, fmt.Errorf("unmarshal verification status: %w", err)
			}
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

func textOrNil(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func sliceOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

var _ RecordsRepository = (*PGXRecordsRepository)(nil)
