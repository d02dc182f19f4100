package database

import (
	"fmt"

	"github.com/rpupo63/typegarden-backend/models"
	"gorm.io/gorm"
)

// Tables with change-notification triggers installed. Each statement-level
// trigger publishes on "<table>_changed" so out-of-band edits reach the
// realtime listener too.
var notifyTables = []string{"fonts", "projects", "font_projects"}

const notifyFunctionSQL = `
CREATE OR REPLACE FUNCTION notify_table_change() RETURNS trigger AS $$
BEGIN
	PERFORM pg_notify(TG_TABLE_NAME || '_changed', lower(TG_OP));
	RETURN NULL;
END;
$$ LANGUAGE plpgsql`

// Migrate creates or updates the schema and installs the NOTIFY triggers.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Font{},
		&models.Project{},
		&models.FontProject{},
	); err != nil {
		return fmt.Errorf("migrating models: %w", err)
	}

	if err := db.Exec(notifyFunctionSQL).Error; err != nil {
		return fmt.Errorf("creating notify function: %w", err)
	}

	for _, table := range notifyTables {
		trigger := fmt.Sprintf("%s_notify_change", table)
		if err := db.Exec(fmt.Sprintf("DROP TRIGGER IF EXISTS %s ON %s", trigger, table)).Error; err != nil {
			return fmt.Errorf("dropping trigger on %s: %w", table, err)
		}
		createSQL := fmt.Sprintf(
			"CREATE TRIGGER %s AFTER INSERT OR UPDATE OR DELETE ON %s FOR EACH STATEMENT EXECUTE FUNCTION notify_table_change()",
			trigger, table,
		)
		if err := db.Exec(createSQL).Error; err != nil {
			return fmt.Errorf("creating trigger on %s: %w", table, err)
		}
	}

	return nil
}
