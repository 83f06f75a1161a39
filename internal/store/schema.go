package store

// The attendance table keys on (student_id, date): at most one record per
// student per day, enforced at the storage layer so concurrent upserts
// serialize on the unique index. Student deletion is intentionally not
// cascaded; the application exposes no student delete.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    username      TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL CHECK (role IN ('admin', 'department')),
    department    TEXT
);

CREATE TABLE IF NOT EXISTS students (
    id         TEXT PRIMARY KEY,
    roll_no    TEXT UNIQUE NOT NULL,
    name       TEXT NOT NULL,
    year       INT  NOT NULL,
    department TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_students_department ON students(department);

CREATE TABLE IF NOT EXISTS attendance (
    id         TEXT PRIMARY KEY,
    student_id TEXT NOT NULL REFERENCES students(id),
    date       DATE NOT NULL,
    status     TEXT NOT NULL CHECK (status IN ('P', 'A')),
    reason     TEXT,
    UNIQUE (student_id, date)
);

CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance(date);
`
