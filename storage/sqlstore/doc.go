// Package sqlstore is the relational backing store for the MARF forest:
// BlobStore, BlockIndex, and ExtensionLock, all sharing one *sql.DB and the
// tables created by createTablesIfNeeded: the three of spec §6 plus the
// store_meta table the shutdown tracker uses.
//
// Open Question (spec §9): whether mined-namespace entries should ever be
// promoted into the committed namespace is left undecided by the observed
// behavior this store was modeled on. This package makes no such promotion
// available — InsertOrReplaceMined and Insert are the only two ways to
// populate a namespace, and a caller wanting to promote mined content must
// read it back (ReadMinedRange, not part of the public BlobStore surface
// described by spec §4.1 but exposed for exactly this use) and call Insert
// explicitly. The mined namespace is treated strictly as scratch space.
package sqlstore
