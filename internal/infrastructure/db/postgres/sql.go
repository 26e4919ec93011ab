package postgres

// capacityLockKey is the advisory lock taken while a registration is checked
// against capacity and inserted.
const capacityLockKey = 2025

const countsSQL = `
SELECT
  COUNT(*),
  COUNT(*) FILTER (WHERE m.workshop_track = 'Cloud Computing'),
  COUNT(*) FILTER (WHERE m.workshop_track = 'AI & ML'),
  COUNT(*) FILTER (WHERE m.competition_track = 'Hackathon'),
  COUNT(*) FILTER (WHERE m.competition_track = 'Startup Pitch'),
  COUNT(*) FILTER (WHERE m.needs_accommodation AND m.gender = 'male'),
  COUNT(*) FILTER (WHERE m.needs_accommodation AND m.gender = 'female')
FROM registration_members m
JOIN registrations r ON r.id = m.registration_id
WHERE r.status <> 'rejected'
`

const statusTotalsSQL = `
SELECT r.status,
       COUNT(*),
       COALESCE(SUM((SELECT COUNT(*) FROM registration_members m WHERE m.registration_id = r.id)), 0),
       COALESCE(SUM(r.total_amount), 0)
FROM registrations r
GROUP BY r.status
ORDER BY r.status
`

const insertRegistrationSQL = `
INSERT INTO registrations (
  id, user_id, team_name, ticket_kind, selection_mode, pitch_groups,
  price, total_amount, payment_reference, pitch_deck_key, status,
  reviewed_by, reviewed_at, reject_reason, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
`

const insertMemberSQL = `
INSERT INTO registration_members (
  id, registration_id, position, name, email, phone, college, gender,
  needs_accommodation, workshop_track, competition_track
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`

const registrationColumns = `
SELECT id, user_id, team_name, ticket_kind, selection_mode, pitch_groups,
       price, payment_reference, pitch_deck_key, status,
       reviewed_by, reviewed_at, reject_reason, created_at, updated_at
FROM registrations
`

const getRegistrationSQL = registrationColumns + `WHERE id = $1`

const getRegistrationByUserSQL = registrationColumns + `
WHERE user_id = $1
ORDER BY (status = 'rejected') ASC, created_at DESC
LIMIT 1
`

const membersSQL = `
SELECT id, registration_id, name, email, phone, college, gender,
       needs_accommodation, workshop_track, competition_track
FROM registration_members
WHERE registration_id = ANY($1)
ORDER BY registration_id, position
`

const updateStatusSQL = `
UPDATE registrations SET
  status=$2, reviewed_by=$3, reviewed_at=$4, reject_reason=$5, updated_at=$6
WHERE id=$1
`

const insertNotificationSQL = `
INSERT INTO notifications (
  id, title, message, url, channels, audience, user_ids,
  status, created_by, created_at, sent_at, report
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`

const notificationColumns = `
SELECT id, title, message, url, channels, audience, user_ids,
       status, created_by, created_at, sent_at, report
FROM notifications
`
