package schema

// LibraryKVStoreTable represents the 'library.kvstore' table
type LibraryKVStoreTable struct {
	Table     string
	Key       string
	Value     string
	UpdatedAt string
}

// LibraryKVStore is the schema definition for library.kvstore
var LibraryKVStore = LibraryKVStoreTable{
	Table:     "library.kvstore",
	Key:       "key",
	Value:     "value",
	UpdatedAt: "updatedat",
}

func (t LibraryKVStoreTable) Columns() []string {
	return []string{t.Key, t.Value, t.UpdatedAt}
}
