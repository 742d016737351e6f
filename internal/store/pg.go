package store

import (
	stderrors "errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradecore/pkg/conn"
)

// Postgres is the server-backed alternative to the embedded file store, for
// sandbox/real runs where several processes share one history. One table,
// keyed by (namespace, key); range scans lean on bytea ordering matching raw
// byte order.
type Postgres struct {
	db *gorm.DB
}

type kvRow struct {
	NS string `gorm:"column:ns;primaryKey;size:256"`
	K  []byte `gorm:"column:k;primaryKey"`
	V  []byte `gorm:"column:v"`
}

func (kvRow) TableName() string { return "timeseries_kv" }

// OpenPostgres connects and migrates the key-value table.
func OpenPostgres(opt conn.Option) (*Postgres, error) {
	db, err := conn.OpenPostgres(opt)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	if err := db.AutoMigrate(&kvRow{}); err != nil {
		return nil, errors.Wrap(err, "migrate timeseries_kv")
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Get(ns string, key []byte) ([]byte, error) {
	var row kvRow
	err := p.db.Where("ns = ? AND k = ?", ns, key).Take(&row).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "pg get %s", ns)
	}
	return row.V, nil
}

func (p *Postgres) GetRange(ns string, begin, end []byte) ([]KV, error) {
	var rows []kvRow
	err := p.db.
		Where("ns = ? AND k >= ? AND k <= ?", ns, begin, end).
		Order("k").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "pg scan %s", ns)
	}
	out := make([]KV, 0, len(rows))
	for _, row := range rows {
		out = append(out, KV{Key: row.K, Value: row.V})
	}
	return out, nil
}

func (p *Postgres) BatchSet(ns string, entries []KV) error {
	rows := make([]kvRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, kvRow{NS: ns, K: e.Key, V: e.Value})
	}
	err := p.db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	})
	return errors.Wrapf(err, "pg batch set %s", ns)
}

func (p *Postgres) Close() error {
	return errors.Wrap(conn.ClosePostgres(p.db), "pg close")
}
