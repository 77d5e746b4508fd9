// Package database handles database connections and schema inspection.
//
// It wraps GORM to configure MySQL or SQLite connections from the application's
// configuration. Snapshots captured from the property provider are persisted
// through the returned *gorm.DB.
//
// # Connect
//
// Connect picks the dialector from Config.Driver, applies pool settings and
// pings the database within Config.TimeoutSeconds.
//
// # Schema Inspection
//
// GetTableColumns reads the live table definition so the
// server integrity check can verify the snapshot table against its model.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "snapshots")
package database
