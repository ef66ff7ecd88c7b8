package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type seedEmployee struct {
	Name        string
	Department  string
	Designation string
}

var seedEmployees = []seedEmployee{
	{Name: "Asha Perera", Department: "Operations", Designation: "Operator"},
	{Name: "Nuwan Silva", Department: "Operations", Designation: "Operator"},
	{Name: "Ishara Fernando", Department: "Operations", Designation: "Supervisor"},
	{Name: "Kasun Jayawardena", Department: "Finance", Designation: "Accountant"},
	{Name: "Dilini Weerasinghe", Department: "Finance", Designation: "Clerk"},
	{Name: "Tharindu Bandara", Department: "Engineering", Designation: "Technician"},
}

// Seed inserts a small directory for development environments. It is a
// no-op once any employee exists.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM employees").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, emp := range seedEmployees {
		deptID, err := ensureDepartment(ctx, pool, emp.Department)
		if err != nil {
			return err
		}
		if _, err := pool.Exec(ctx, `
      INSERT INTO employees (name, department_id, designation)
      VALUES ($1,$2,$3)
    `, emp.Name, deptID, emp.Designation); err != nil {
			return err
		}
	}
	return nil
}

func ensureDepartment(ctx context.Context, pool *pgxpool.Pool, name string) (int64, error) {
	var id int64
	err := pool.QueryRow(ctx, "SELECT id FROM departments WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	err = pool.QueryRow(ctx, "INSERT INTO departments (name) VALUES ($1) RETURNING id", name).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}
