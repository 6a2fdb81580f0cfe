package core

const (
	// KeyFilePrefix starts every key file name; the rest of the name is
	// the lowercase hex encoding of the key bytes.
	KeyFilePrefix = "0x"

	DefaultNumColumns = 1

	// 0 (special bit - ignored), 7 (rwx - owner), 5 (r-x - user group), 5 (r-x - others)
	DirPerm  = 0755
	FilePerm = 0644
)
