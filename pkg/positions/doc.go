/*
Package positions implements the position log service.

Manager sits between the transports (HTTP, CLI, MCP) and a ports.PositionStore.
It validates requests in the fixed order the API documents, caps history queries,
optionally serializes appends across replicas with a distributed lock, and logs
every append. It also satisfies ports.PositionRecorder so a robot can run
against a local store without the HTTP server.
*/
package positions
