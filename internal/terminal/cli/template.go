package cli

const usageTemplate = `VaultSync Terminal

Usage:
  vaultsync-terminal [OPTIONS] COMMAND

Options:
  --version             Show version information
  --server URL          Store server URL (default: http://localhost:8080)
  --db PATH             Path to local database (default: vaultsync-terminal.db)
  --sync-interval DUR   Background sync interval for 'run' (default: 30s)

Commands:
  register                    Register this terminal on the store server
  stage                       Queue a local change record
  sync                        Run one push/pull synchronization cycle
  run                         Keep synchronizing in the background
  status                      Show local synchronization status
  queue                       List changes waiting to be pushed
  conflicts [status]          List local sync conflicts (default: pending)
  resolve <conflict-id>       Resolve a local sync conflict
  count                       Submit a blind inventory count
  discrepancies [status]      List audit discrepancies (default: pending)
  discrepancies session <id>  List all discrepancies of one count session
  discrepancies resolve <id>  Resolve or ignore an audit discrepancy
  nodes                       List terminals registered on the server

Examples:
  # First start: pair the terminal with the store server
  vaultsync-terminal --server http://store-server:8080 register

  # Stage a change and push it
  vaultsync-terminal stage
  vaultsync-terminal sync

  # Keep a kiosk terminal synchronized
  vaultsync-terminal --sync-interval 1m run

  # Review and resolve concurrent edits
  vaultsync-terminal conflicts
  vaultsync-terminal resolve b692f5c0-2d88-4aa1-a9e1-13aa6e4976d5

  # Quarterly stock audit
  vaultsync-terminal count
  vaultsync-terminal discrepancies
`

const conflictListTemplate = `
=== Sync Conflicts ===

{{- if eq (len .) 0 }}

No conflicts found.

Concurrent changes show up here after a sync cycle.
{{ else }}

Found {{len .}} conflict(s):

{{- range . }}
- {{ .ID }}
   Record:   {{ .RecordType }}/{{ .RecordID }}
   Detected: {{ .DetectedAt }}
   Status:   {{ .Status }}
   {{- if .Strategy }}
   Strategy: {{ .Strategy }}
   {{- end }}
   Local:    {{ .LocalClock }}  {{ .LocalData }}
   Remote:   {{ .RemoteClock }}  {{ .RemoteData }}

{{- end }}
Use 'vaultsync-terminal resolve <id>' to resolve a conflict.
{{- end }}
`

const queueListTemplate = `
=== Outbound Queue ===

{{- if eq (len .) 0 }}

Queue is empty: all local changes are on the server.
{{ else }}

Found {{len .}} queued change(s):

{{- range . }}
- #{{ .Key }}  {{ .RecordType }}/{{ .RecordID }} ({{ .Operation }})
   Enqueued: {{ .EnqueuedAt }}
   Clock:    {{ .Clock }}
   {{- if .RetryCount }}
   Retries:  {{ .RetryCount }}
   {{- end }}
   {{- if .LastError }}
   Last error: {{ .LastError }}
   {{- end }}

{{- end }}
Run 'vaultsync-terminal sync' to push queued changes.
{{- end }}
`

const discrepancyListTemplate = `
{{- if eq (len .) 0 }}
No discrepancies found.
{{ else }}
Found {{len .}} discrepancy(ies):

{{- range . }}
- {{ .ID }}
   Type:     {{ .ConflictType }} ({{ .Severity }})
   {{- if .ProductUUID }}
   Product:  {{ .ProductUUID }} [{{ .Condition }}]
   {{- end }}
   Expected: {{ .Expected }}, actual: {{ .Actual }}, variance: {{ .Variance }}
   Status:   {{ .Status }}
   {{- if .Notes }}
   Notes:    {{ .Notes }}
   {{- end }}

{{- end }}
{{- end }}
`

const nodeListTemplate = `
=== Registered Terminals ===

{{- if eq (len .) 0 }}

No terminals registered yet.
{{ else }}

Found {{len .}} terminal(s):

{{- range . }}
- {{ .Name }}
   ID:         {{ .ID }}
   Registered: {{ .RegisteredAt }}
   Last seen:  {{ .LastSeenAt }}

{{- end }}
{{- end }}
`
