package store

import "fmt"

// seed populates the employees and salesdata tables when they are empty.
// The dataset is fictional but shaped like the production warehouse export:
// one sales row per region and quarter, and a roster spanning every role,
// region and employment type combination the access policy cares about.
func (s *SQLiteStore) seed() error {
	var employees int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM employees`).Scan(&employees); err != nil {
		return fmt.Errorf("count employees: %w", err)
	}
	if employees == 0 {
		if err := s.seedEmployees(); err != nil {
			return err
		}
	}

	var sales int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM salesdata`).Scan(&sales); err != nil {
		return fmt.Errorf("count salesdata: %w", err)
	}
	if sales == 0 {
		if err := s.seedSales(); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) seedEmployees() error {
	rows := [][]string{
		{"E-1001", "Ava Mitchell", "avatars/ava.png", "Account Executive", "North America", "Employee"},
		{"E-1002", "Lukas Brandt", "avatars/lukas.png", "Account Executive", "EMEA", "Employee"},
		{"E-1003", "Mei Tanaka", "avatars/mei.png", "Account Executive", "Asia", "Employee"},
		{"E-1004", "Sofia Herrera", "avatars/sofia.png", "Account Executive", "LATAM", "Contractor"},
		{"E-1005", "Daniel Okafor", "avatars/daniel.png", "Director", "EMEA", "Employee"},
		{"E-1006", "Grace Liu", "avatars/grace.png", "Director", "North America", "Employee"},
		{"E-1007", "Tomás Rocha", "avatars/tomas.png", "Contractor", "LATAM", "Contractor"},
		{"E-1008", "Priya Nair", "avatars/priya.png", "Other", "Asia", "Employee"},
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin employee seed: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO employees (employee_id, employee_name, photo, role, region, employment_type)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare employee seed: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(r[0], r[1], r[2], r[3], r[4], r[5]); err != nil {
			return fmt.Errorf("insert employee %s: %w", r[0], err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) seedSales() error {
	type row struct {
		region, quarter                    string
		quota, profit, commission, revenue float64
	}
	rows := []row{
		{"North America", "Q1", 1200000, 310000, 96000, 1480000},
		{"North America", "Q2", 1250000, 287000, 91000, 1395000},
		{"North America", "Q3", 1300000, 342000, 104000, 1610000},
		{"North America", "Q4", 1400000, 398000, 118000, 1820000},
		{"EMEA", "Q1", 900000, 214000, 72000, 1040000},
		{"EMEA", "Q2", 950000, 231000, 76000, 1120000},
		{"EMEA", "Q3", 980000, 256000, 83000, 1275000},
		{"EMEA", "Q4", 1050000, 289000, 94000, 1430000},
		{"Asia", "Q1", 700000, 158000, 54000, 810000},
		{"Asia", "Q2", 740000, 171000, 59000, 885000},
		{"Asia", "Q3", 790000, 186000, 64000, 960000},
		{"Asia", "Q4", 860000, 208000, 71000, 1065000},
		{"LATAM", "Q1", 450000, 92000, 31000, 505000},
		{"LATAM", "Q2", 470000, 101000, 34000, 548000},
		{"LATAM", "Q3", 510000, 114000, 38000, 602000},
		{"LATAM", "Q4", 560000, 129000, 43000, 671000},
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin sales seed: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO salesdata (region, quarter, quota, profit, commission, revenue)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare sales seed: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(r.region, r.quarter, r.quota, r.profit, r.commission, r.revenue); err != nil {
			return fmt.Errorf("insert sales row %s/%s: %w", r.region, r.quarter, err)
		}
	}
	return tx.Commit()
}
