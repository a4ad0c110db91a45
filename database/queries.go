package database

// SQL query constants for database operations.

const (
	versionColumns = `document_id, source_id, version, title, content, metadata,
		category, device_classes, status, original_date`

	ListVersions = `
		SELECT ` + versionColumns + `
		FROM document_versions
		WHERE document_id = $1
		ORDER BY original_date ASC, version ASC`

	// Empty source and NULL bounds disable the corresponding filter.
	ListDocuments = `
		SELECT ` + versionColumns + `
		FROM document_versions
		WHERE ($1 = '' OR source_id = $1)
		  AND ($2::timestamptz IS NULL OR original_date >= $2)
		  AND ($3::timestamptz IS NULL OR original_date <= $3)
		ORDER BY original_date DESC, version DESC`

	NextVersionNumber = `
		SELECT COALESCE(MAX(version), 0) + 1
		FROM document_versions
		WHERE document_id = $1`

	InsertVersion = `
		INSERT INTO document_versions (
			version_id, document_id, source_id, version, title, content, metadata,
			category, device_classes, status, original_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT DO NOTHING`

	InsertChangeRecord = `
		INSERT INTO change_records (
			change_id,
			document_id,
			document_title,
			source_id,
			change_type,
			previous_version,
			current_version,
			current_original_date,
			changes_summary,
			impact_assessment,
			affected_sections,
			affected_stakeholders,
			confidence,
			detected_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (change_id) DO NOTHING`
)
