/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

const (
	// Audit queries
	queryInsertAuditEntry = `
		INSERT INTO audit_log (id, operation, chain, address, amount, outcome, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	queryListAuditEntries = `
		SELECT id, operation, chain, address, amount, outcome, detail, created_at
		FROM audit_log
		WHERE (? = '' OR chain = ?)
		  AND (? = '' OR operation = ?)
		  AND (? = '' OR outcome = ?)
		ORDER BY created_at DESC
		LIMIT ?`

	// Payment code queries
	queryUpsertPaymentCode = `
		INSERT INTO payment_codes (session_id, uri, png) VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET uri = excluded.uri, png = excluded.png`

	queryGetPaymentCode = `
		SELECT uri, png FROM payment_codes WHERE session_id = ?`
)
