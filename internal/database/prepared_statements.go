package database

// Requêtes des chemins chauds, centralisées. gocql prépare et met en cache
// chaque statement à sa première exécution ; partager la chaîne garantit la
// réutilisation du prepared statement côté serveur.
const (
	StmtGetUserByEmail = "SELECT user_id FROM users_by_email WHERE email = ?"

	StmtGetUserByID = `SELECT username, email, password, role, created_at
	                   FROM users WHERE user_id = ?`

	StmtInsertUser = `INSERT INTO users (user_id, username, email, password, role, created_at)
	                  VALUES (?, ?, ?, ?, ?, ?)`

	StmtGetProductByID = `SELECT name, description, price, category, stock, image_url, created_at
	                      FROM products WHERE product_id = ?`
)
