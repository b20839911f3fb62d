package domain

// KeyPrefix namespaces every key this service writes to the shared KV store.
// main overrides it from configuration before anything touches the store.
var KeyPrefix = "bughunter:"
