package mysql

const getUserSQL = `
SELECT
  u.id,
  u.email,
  u.first_name,
  u.last_name,
  u.password_hash,
  u.github_id,
  u.is_host,
  (SELECT COUNT(*) FROM cohost_permissions cp WHERE cp.cohost_id = u.id) AS grant_count,
  u.created_at,
  u.updated_at
FROM users u
WHERE u.id = ?
`

const listingColumns = `
  id, host_id, title, description, address, city, country,
  price_cents, max_guests, bedrooms, bathrooms,
  images, amenities, rules, created_at, updated_at
`

const insertListingSQL = `
INSERT INTO listings
  (host_id, title, description, address, city, country,
   price_cents, max_guests, bedrooms, bathrooms, images, amenities, rules)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// lockListingSQL pins the listing row for the duration of the booking
// transaction; concurrent inserts on the same listing serialize here.
const lockListingSQL = `SELECT id FROM listings WHERE id = ? FOR UPDATE`

// countConflictsSQL is the half-open overlap test over bookings that still
// hold their dates: [a_in, a_out) intersects [check_in, check_out) exactly
// when check_in < a_out AND a_in < check_out.
const countConflictsSQL = `
SELECT COUNT(*)
FROM bookings
WHERE listing_id = ?
  AND status IN ('pending', 'confirmed')
  AND check_in < ?
  AND ? < check_out
`

const insertBookingSQL = `
INSERT INTO bookings
  (listing_id, guest_id, check_in, check_out, guests, total_cents, status)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
`

const bookingColumns = `
  id, listing_id, guest_id, check_in, check_out, guests,
  total_cents, status, created_at, updated_at
`

const listGuestBookingsSQL = `
SELECT
  b.id, b.listing_id, b.guest_id, b.check_in, b.check_out, b.guests,
  b.total_cents, b.status, b.created_at, b.updated_at,
  l.title, l.city, l.images
FROM bookings b
JOIN listings l ON l.id = b.listing_id
WHERE b.guest_id = ?
ORDER BY b.check_in DESC
`

const listHostBookingsSQL = `
SELECT
  b.id, b.listing_id, b.guest_id, b.check_in, b.check_out, b.guests,
  b.total_cents, b.status, b.created_at, b.updated_at
FROM bookings b
JOIN listings l ON l.id = b.listing_id
WHERE l.host_id = ?
ORDER BY b.check_in DESC
`

const updateBookingStatusSQL = `
UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`

const permissionColumns = `
  id, listing_id, host_id, cohost_id,
  can_edit_listing, can_manage_bookings, can_respond_messages, created_at
`

const insertPermissionSQL = `
INSERT INTO cohost_permissions
  (listing_id, host_id, cohost_id, can_edit_listing, can_manage_bookings, can_respond_messages)
VALUES
  (?, ?, ?, ?, ?, ?)
`

const insertConversationSQL = `
INSERT INTO conversations (listing_id, guest_id, host_id) VALUES (?, ?, ?)
`

// listConversationsSQL builds the inbox: one row per conversation the user
// takes part in, with the counterpart's display name and the number of
// messages they have not read yet.
const listConversationsSQL = `
SELECT
  c.id, c.listing_id, c.guest_id, c.host_id, c.created_at, c.updated_at,
  l.title AS listing_title,
  CASE
    WHEN c.guest_id = ? THEN CONCAT(uh.first_name, ' ', uh.last_name)
    ELSE CONCAT(ug.first_name, ' ', ug.last_name)
  END AS other_user_name,
  (SELECT COUNT(*)
     FROM messages m
    WHERE m.conversation_id = c.id
      AND m.sender_id <> ?
      AND m.read_at IS NULL) AS unread_count
FROM conversations c
JOIN listings l ON l.id = c.listing_id
JOIN users ug ON ug.id = c.guest_id
JOIN users uh ON uh.id = c.host_id
WHERE c.guest_id = ? OR c.host_id = ?
ORDER BY c.updated_at DESC
`

const listMessagesSQL = `
SELECT
  m.id, m.conversation_id, m.sender_id, m.content, m.created_at, m.read_at,
  CONCAT(u.first_name, ' ', u.last_name) AS sender_name,
  CASE
    WHEN u.is_host THEN 'host'
    WHEN EXISTS (SELECT 1 FROM cohost_permissions cp WHERE cp.cohost_id = u.id) THEN 'cohost'
    ELSE 'user'
  END AS sender_role
FROM messages m
JOIN users u ON u.id = m.sender_id
WHERE m.conversation_id = ?
ORDER BY m.created_at ASC, m.id ASC
`

const markReadSQL = `
UPDATE messages
SET read_at = CURRENT_TIMESTAMP
WHERE conversation_id = ? AND sender_id <> ? AND read_at IS NULL
`

const countUnreadSQL = `
SELECT COUNT(*)
FROM messages m
JOIN conversations c ON c.id = m.conversation_id
WHERE (c.guest_id = ? OR c.host_id = ?)
  AND m.sender_id <> ?
  AND m.read_at IS NULL
`
