package postgres

const insertStateSQL = `
INSERT INTO states (name, slug)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
RETURNING id
`

const getStateBySlugSQL = `
SELECT id, name, slug
FROM states WHERE slug = $1
`

const deleteStateSQL = `DELETE FROM states WHERE id = $1`

// Row lock keeps the owning state from being deleted while a city is inserted under it.
const lockStateSQL = `
SELECT slug FROM states WHERE id = $1 FOR SHARE
`

const insertCitySQL = `
INSERT INTO cities (name, slug, state_id)
VALUES ($1, $2, $3)
ON CONFLICT DO NOTHING
RETURNING id
`

const listCitiesByStateSlugSQL = `
SELECT c.id, c.name, c.slug, c.state_id, s.slug
FROM cities c JOIN states s ON s.id = c.state_id
WHERE s.slug = $1
ORDER BY c.id ASC
`

const getCityBySlugsSQL = `
SELECT c.id, c.name, c.slug, c.state_id, s.slug
FROM cities c JOIN states s ON s.id = c.state_id
WHERE s.slug = $1 AND c.slug = $2
`
