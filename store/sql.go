package store

// Statement templates are fixed at compile time; the only runtime inputs are
// positional parameters. The user insert and update both end in RETURNING
// concurrency_token so the write and the post-write token read travel as one
// statement, leaving no window for another writer between them.
const (
	sqlRoleGetAll = `SELECT role_id, type FROM roles`

	sqlRoleGetByID = `SELECT role_id, type FROM roles WHERE role_id = $1`

	sqlRoleInsert = `INSERT INTO roles (role_id, type) VALUES ($1, $2)`

	sqlUserGetByID = `
SELECT user_id, username, email, password_hash, deactivated_on, gdpr_signed_on, concurrency_token
FROM users
WHERE user_id = $1`

	sqlUserGetAll = `
SELECT user_id, username, email, password_hash, deactivated_on, gdpr_signed_on, concurrency_token
FROM users`

	sqlUserInsert = `
INSERT INTO users (user_id, username, email, password_hash, deactivated_on, gdpr_signed_on)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING concurrency_token`

	sqlUserUpdate = `
UPDATE users
SET username = $2,
    email = $3,
    password_hash = $4,
    deactivated_on = $5,
    gdpr_signed_on = $6,
    concurrency_token = gen_random_uuid()
WHERE user_id = $1 AND concurrency_token = $7
RETURNING concurrency_token`

	sqlUserDeleteAll = `DELETE FROM users`

	sqlUserRoleGetAll = `SELECT user_id, role_id FROM user_roles`

	sqlUserRoleInsert = `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`

	sqlUserGetByIDWithRoles = `
SELECT u.user_id, u.username, u.email, u.password_hash, u.deactivated_on, u.gdpr_signed_on, u.concurrency_token,
       r.role_id, r.type AS role_type
FROM user_roles ur
INNER JOIN users u ON ur.user_id = u.user_id
INNER JOIN roles r ON r.role_id = ur.role_id
WHERE u.user_id = $1`

	sqlNameProjectionGetAll = `SELECT user_id AS id, username AS name FROM users`
)
