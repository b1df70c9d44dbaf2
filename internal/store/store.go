// Package store persists extracted PDF elements keyed by file identity
// (path-derived id + content hash) in a sqlite database.
package store

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"pdf-translator/internal/logger"
	"pdf-translator/internal/pdf"
	"pdf-translator/internal/types"
)

// FileRecord 已处理 PDF 文件的身份与新鲜度记录
type FileRecord struct {
	FileID        string          `gorm:"column:file_id;primaryKey" json:"file_id"`
	FilePath      string          `gorm:"column:file_path;uniqueIndex;not null" json:"file_path"`
	FileHash      string          `gorm:"column:file_hash;not null" json:"file_hash"`
	TotalPages    int             `gorm:"column:total_pages" json:"total_pages"`
	LastProcessed time.Time       `gorm:"column:last_processed" json:"last_processed"`
	Elements      []ElementRecord `gorm:"foreignKey:FileID;references:FileID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName maps FileRecord to the pdf_files table
func (FileRecord) TableName() string { return "pdf_files" }

// ElementRecord 单个元素的持久化形式
type ElementRecord struct {
	ElementID    string `gorm:"column:element_id;primaryKey"`
	FileID       string `gorm:"column:file_id;index;not null"`
	ElementType  string `gorm:"column:element_type;not null"`
	Content      string `gorm:"column:content"`
	BinaryData   []byte `gorm:"column:binary_data"`
	PageNum      int    `gorm:"column:page_num;not null"`
	ElementIndex int    `gorm:"column:element_index;not null"`
	BBox         string `gorm:"column:bbox"` // comma-joined x0,y0,x1,y1; empty when unpositioned
}

// TableName maps ElementRecord to the elements table
func (ElementRecord) TableName() string { return "elements" }

// Store is the content-addressed element store
type Store struct {
	db *gorm.DB
}

// Open opens (creating if necessary) the sqlite database at dbPath and
// migrates the schema.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, types.NewAppError(types.ErrStore, "failed to create database directory", err)
		}
	}

	// Foreign keys are off by default in sqlite; the cascade from
	// pdf_files to elements depends on them.
	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, types.NewAppError(types.ErrStore, "failed to open element database", err)
	}

	if err := db.AutoMigrate(&FileRecord{}, &ElementRecord{}); err != nil {
		return nil, types.NewAppError(types.ErrStore, "failed to migrate element schema", err)
	}

	logger.Info("element store opened", logger.String("path", dbPath))
	return &Store{db: db}, nil
}

// Close releases the underlying database handle
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// FileID derives the stable file identity from the absolute path.
// It does not depend on file contents, so it survives re-extraction.
func FileID(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	sum := md5.Sum([]byte(abs))
	return hex.EncodeToString(sum[:])
}

// FileHash computes the content digest of the file bytes. It is the single
// source of truth for cache validity: a differing hash invalidates every
// stored element for the file.
func FileHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", types.NewAppError(types.ErrFileNotFound, "failed to read file for hashing: "+path, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Store replaces any existing record and elements for the path's file id
// with the given extraction result, atomically. Returns the file id.
func (s *Store) Store(path string, elements []pdf.PDFElement, totalPages int) (string, error) {
	fileID := FileID(path)
	fileHash, err := FileHash(path)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	records := make([]ElementRecord, 0, len(elements))
	for _, el := range elements {
		bbox := ""
		if el.BBox != nil {
			bbox = el.BBox.String()
		}
		records = append(records, ElementRecord{
			ElementID:    fmt.Sprintf("%s_%d_%d", fileID, el.PageNum, el.ElementIndex),
			FileID:       fileID,
			ElementType:  string(el.Type),
			Content:      el.Content,
			BinaryData:   el.BinaryData,
			PageNum:      el.PageNum,
			ElementIndex: el.ElementIndex,
			BBox:         bbox,
		})
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("file_id = ?", fileID).Delete(&ElementRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("file_id = ?", fileID).Delete(&FileRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&FileRecord{
			FileID:        fileID,
			FilePath:      abs,
			FileHash:      fileHash,
			TotalPages:    totalPages,
			LastProcessed: time.Now(),
		}).Error; err != nil {
			return err
		}
		if len(records) > 0 {
			if err := tx.CreateInBatches(records, 200).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("element store write failed", err, logger.String("path", abs))
		return "", types.NewAppError(types.ErrStore, "failed to store elements for "+abs, err)
	}

	logger.Info("elements stored",
		logger.String("fileID", fileID),
		logger.Int("elements", len(records)),
		logger.Int("pages", totalPages))
	return fileID, nil
}

// Fetch returns the persisted elements for the path's current file id,
// ordered by (page_num, element_index). Returns an empty slice when the
// file has never been stored.
func (s *Store) Fetch(path string) ([]pdf.PDFElement, error) {
	var records []ElementRecord
	err := s.db.
		Where("file_id = ?", FileID(path)).
		Order("page_num, element_index").
		Find(&records).Error
	if err != nil {
		return nil, types.NewAppError(types.ErrStore, "failed to fetch elements for "+path, err)
	}

	elements := make([]pdf.PDFElement, 0, len(records))
	for _, r := range records {
		elements = append(elements, pdf.PDFElement{
			Content:      r.Content,
			Type:         pdf.ElementType(r.ElementType),
			PageNum:      r.PageNum,
			ElementIndex: r.ElementIndex,
			BinaryData:   r.BinaryData,
			BBox:         parseBBox(r.BBox),
		})
	}
	return elements, nil
}

// Metadata returns the FileRecord for the path, or nil when absent.
func (s *Store) Metadata(path string) (*FileRecord, error) {
	var record FileRecord
	err := s.db.Where("file_id = ?", FileID(path)).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, types.NewAppError(types.ErrStore, "failed to read metadata for "+path, err)
	}
	return &record, nil
}

// Invalidate removes the file record for one path; the foreign key cascade
// removes its elements.
func (s *Store) Invalidate(path string) error {
	if err := s.db.Where("file_id = ?", FileID(path)).Delete(&FileRecord{}).Error; err != nil {
		return types.NewAppError(types.ErrStore, "failed to invalidate "+path, err)
	}
	logger.Info("store entry invalidated", logger.String("path", path))
	return nil
}

// InvalidateAll purges every stored file and element.
func (s *Store) InvalidateAll() error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&ElementRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&FileRecord{}).Error
	})
	if err != nil {
		return types.NewAppError(types.ErrStore, "failed to purge element store", err)
	}
	logger.Info("element store purged")
	return nil
}

// parseBBox decodes the comma-joined bbox tuple; malformed values come back
// as nil rather than failing the fetch.
func parseBBox(s string) *pdf.BBox {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil
		}
		vals[i] = v
	}
	return &pdf.BBox{X0: vals[0], Y0: vals[1], X1: vals[2], Y1: vals[3]}
}
