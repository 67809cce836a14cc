// Package mcp defines the canonical Model Context Protocol server
// configuration airc materializes from descriptors and hands to editor
// strategies.
//
// Editors disagree on almost everything here: the wrapping key
// (mcpServers, servers, context_servers, mcp_servers), the transport
// field name and values (type: http vs transport: sse), and the file
// format (JSON vs TOML). The canonical form is the neutral middle; each
// editor's MCP strategy translates both directions.
//
// Server and Config preserve unknown JSON fields across a parse/format
// round-trip so airc never strips fields added by newer editor versions.
package mcp
