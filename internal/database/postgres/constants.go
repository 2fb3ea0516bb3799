package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"

	// PgErrorCodeLockNotAvailable is raised by FOR UPDATE NOWAIT when the row is already locked
	PgErrorCodeLockNotAvailable = "55P03"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginMiningTx = "failed to begin mining transaction"
	ErrMsgFailedToBeginClaimTx  = "failed to begin claim transaction"
)

// Column lists shared by queries and scanners. Order must match the scan helpers in utils.go.
const (
	playerColumns = `player_id::text, wallet_address, COALESCE(username, ''), coins,
		nickel, cobalt, copper, manganese, total_resources_mined, total_tokens_earned, created_at, updated_at`

	nodeColumns = `session_id, node_id, resource_type, resource_amount, position_x, position_y, position_z,
		status, claimed_by::text, claimed_at, respawn_at, respawn_delay_seconds, rarity, updated_at`

	attemptColumns = `attempt_id, player_id::text, wallet_address, session_id, node_id,
		position_x, position_y, position_z, distance_to_node, success, failure_reason,
		COALESCE(resource_type, ''), resource_amount, flags, outcome, attempted_at`

	claimColumns = `claim_id::text, wallet_address, player_id::text, amount, nonce, expires_at, signature,
		used, used_at, claim_type, idempotency_key, tx_reference, metadata, created_at`
)

// Player queries
const (
	queryGetPlayerByWallet = `SELECT ` + playerColumns + ` FROM players WHERE wallet_address = $1`

	queryGetPlayerForUpdate = `SELECT ` + playerColumns + ` FROM players WHERE wallet_address = $1 FOR UPDATE`

	queryEnsurePlayer = `
		INSERT INTO players (wallet_address, username, username_key)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
		ON CONFLICT (wallet_address) DO UPDATE SET updated_at = players.updated_at
		RETURNING ` + playerColumns

	// One fixed statement per resource type; the column is never built from input.
	queryCreditNickel = `
		UPDATE players SET nickel = nickel + $2, total_resources_mined = total_resources_mined + $2, updated_at = NOW()
		WHERE player_id = $1 RETURNING nickel`
	queryCreditCobalt = `
		UPDATE players SET cobalt = cobalt + $2, total_resources_mined = total_resources_mined + $2, updated_at = NOW()
		WHERE player_id = $1 RETURNING cobalt`
	queryCreditCopper = `
		UPDATE players SET copper = copper + $2, total_resources_mined = total_resources_mined + $2, updated_at = NOW()
		WHERE player_id = $1 RETURNING copper`
	queryCreditManganese = `
		UPDATE players SET manganese = manganese + $2, total_resources_mined = total_resources_mined + $2, updated_at = NOW()
		WHERE player_id = $1 RETURNING manganese`

	queryApplyDebit = `
		UPDATE players SET
			coins = coins - $2,
			nickel = nickel - $3,
			cobalt = cobalt - $4,
			copper = copper - $5,
			manganese = manganese - $6,
			total_tokens_earned = total_tokens_earned + $7,
			updated_at = NOW()
		WHERE player_id = $1`
)

// Node queries
const (
	queryGetNode = `SELECT ` + nodeColumns + ` FROM resource_nodes WHERE session_id = $1 AND node_id = $2`

	queryGetNodeForUpdateNoWait = `SELECT ` + nodeColumns + `
		FROM resource_nodes WHERE session_id = $1 AND node_id = $2 FOR UPDATE NOWAIT`

	queryListSessionNodes = `SELECT ` + nodeColumns + ` FROM resource_nodes WHERE session_id = $1 ORDER BY node_id`

	queryUpsertNode = `
		INSERT INTO resource_nodes (session_id, node_id, resource_type, resource_amount,
			position_x, position_y, position_z, status, respawn_delay_seconds, rarity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (session_id, node_id) DO UPDATE SET
			resource_type = EXCLUDED.resource_type,
			resource_amount = EXCLUDED.resource_amount,
			respawn_delay_seconds = EXCLUDED.respawn_delay_seconds,
			rarity = EXCLUDED.rarity,
			updated_at = NOW()`

	queryUpdateNodeState = `
		UPDATE resource_nodes
		SET status = $3, claimed_by = $4, claimed_at = $5, respawn_at = $6, updated_at = NOW()
		WHERE session_id = $1 AND node_id = $2`

	queryReclaimNode = `
		UPDATE resource_nodes
		SET status = 'available', claimed_by = NULL, claimed_at = NULL, respawn_at = NULL, updated_at = NOW()
		WHERE session_id = $1 AND node_id = $2
		  AND status IN ('depleted', 'respawning') AND respawn_at <= $3`

	// Rows held by an in-flight mining transaction are skipped and picked up on the next sweep.
	queryReclaimDueNodes = `
		UPDATE resource_nodes n
		SET status = 'available', claimed_by = NULL, claimed_at = NULL, respawn_at = NULL, updated_at = NOW()
		FROM (
			SELECT session_id, node_id FROM resource_nodes
			WHERE status IN ('depleted', 'respawning') AND respawn_at <= $1
			FOR UPDATE SKIP LOCKED
		) due
		WHERE n.session_id = due.session_id AND n.node_id = due.node_id`
)

// Audit log queries
const (
	queryGetAttempt = `SELECT ` + attemptColumns + ` FROM mining_attempts WHERE attempt_id = $1`

	queryInsertAttempt = `
		INSERT INTO mining_attempts (attempt_id, player_id, wallet_address, session_id, node_id,
			position_x, position_y, position_z, distance_to_node, success, failure_reason,
			resource_type, resource_amount, flags, outcome, attempted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), $13, $14, $15, $16)`

	queryRecordAttempt = queryInsertAttempt + ` ON CONFLICT (attempt_id) DO NOTHING`

	queryLastAttemptAt = `
		SELECT attempted_at FROM mining_attempts
		WHERE wallet_address = $1 ORDER BY attempted_at DESC LIMIT 1`

	queryListFlaggedAttempts = `SELECT ` + attemptColumns + `
		FROM mining_attempts WHERE cardinality(flags) > 0
		ORDER BY attempted_at DESC LIMIT $1`
)

// Claim queries
const (
	querySumReserved = `
		SELECT COALESCE(SUM(amount), 0)::bigint FROM claim_signatures
		WHERE wallet_address = $1 AND used = FALSE AND expires_at > $2`

	queryGetClaimByNonce = `SELECT ` + claimColumns + `
		FROM claim_signatures WHERE wallet_address = $1 AND nonce = $2`

	queryGetClaimByNonceForUpdate = queryGetClaimByNonce + ` FOR UPDATE`

	queryGetClaimByIdempotencyKey = `SELECT ` + claimColumns + `
		FROM claim_signatures WHERE wallet_address = $1 AND idempotency_key = $2`

	queryNextNonce = `
		INSERT INTO wallet_nonces (wallet_address, last_nonce) VALUES ($1, 1)
		ON CONFLICT (wallet_address) DO UPDATE
		SET last_nonce = wallet_nonces.last_nonce + 1, updated_at = NOW()
		RETURNING last_nonce`

	queryInsertClaim = `
		INSERT INTO claim_signatures (claim_id, wallet_address, player_id, amount, nonce, expires_at,
			signature, used, claim_type, idempotency_key, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, $9, $10, $11)`

	queryMarkClaimUsed = `
		UPDATE claim_signatures SET used = TRUE, used_at = $2, tx_reference = NULLIF($3, '')
		WHERE claim_id = $1 AND used = FALSE`
)

// Journal queries
const (
	queryLogEvent = `
		INSERT INTO economy_events (event_type, subject_id, payload, metadata)
		VALUES ($1, $2, $3, $4)`

	querySelectEvents = `
		SELECT id, event_type, subject_id, payload, metadata, created_at
		FROM economy_events
		WHERE TRUE`

	queryCleanupEvents = `
		DELETE FROM economy_events
		WHERE created_at < NOW() - INTERVAL '1 day' * $1`
)
