package db

const deviceColumns = `
	id,
	name,
	cpu_serial,
	device_uuid,
	status,
	last_seen,
	COALESCE(config, '{}'::jsonb) AS config,
	playlist_id,
	created_at,
	account_id,
	paired_at,
	pairing_code,
	pairing_code_expires_at`

const findDeviceByIdentity = `
SELECT` + deviceColumns + `
FROM devices
WHERE cpu_serial = $1 OR device_uuid = $2
ORDER BY (cpu_serial = $1) DESC
LIMIT 1
`

const getDeviceByID = `
SELECT` + deviceColumns + `
FROM devices
WHERE id = $1
`

const getDeviceByCode = `
SELECT` + deviceColumns + `
FROM devices
WHERE pairing_code = $1
`

const getDeviceByUUID = `
SELECT` + deviceColumns + `
FROM devices
WHERE device_uuid = $1
`

const createDevice = `
INSERT INTO devices (id, name, cpu_serial, device_uuid, status, pairing_code, pairing_code_expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at
`

const renewCode = `
UPDATE devices
SET pairing_code = $1,
	pairing_code_expires_at = $2,
	device_uuid = $3
WHERE id = $4 AND account_id IS NULL
`

const claimDevice = `
UPDATE devices
SET account_id = $1,
	paired_at = $2,
	name = COALESCE($3, name),
	pairing_code = NULL,
	pairing_code_expires_at = NULL
WHERE id = $4
	AND pairing_code = $5
	AND account_id IS NULL
	AND pairing_code_expires_at >= $2
RETURNING` + deviceColumns

const upsertOnline = `
INSERT INTO devices (id, name, cpu_serial, status, last_seen)
VALUES ($1, $2, $3, 'online', $4)
ON CONFLICT (cpu_serial) DO UPDATE
SET status = 'online',
	last_seen = EXCLUDED.last_seen
RETURNING` + deviceColumns

const touchLastSeen = `
UPDATE devices
SET status = 'online',
	last_seen = $1
WHERE cpu_serial = $2
`

const setStatus = `
UPDATE devices
SET status = $1
WHERE cpu_serial = $2
RETURNING` + deviceColumns

const markAllOffline = `
UPDATE devices
SET status = 'offline'
WHERE status = 'online'
`
