package migration

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(Up00001, Down00001)
}

// Up00001 creates the local scene index table.
func Up00001(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE public.scenes
		(
			product_id text NOT NULL,
			collection text NOT NULL,
			acquisition_date timestamp with time zone NOT NULL,
			cloud_cover double precision NOT NULL,
			scene_url text NOT NULL,
			bounds geometry(Polygon, 4326) NOT NULL,
			CONSTRAINT scenes_primary_product_id PRIMARY KEY (product_id)
		);`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		CREATE INDEX idx_scenes_bounds
		ON public.scenes USING gist
		(bounds);

		CREATE INDEX idx_scenes_acquisition_date
		ON public.scenes (acquisition_date);
		`)
	return err
}

// Down00001 undoes the db changes.
func Down00001(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS public.scenes;`)
	return err
}
