/*
Package domain contains the value types of the handrail state container:
per-step flags, the aggregate wizard state, navigation/validation
configuration, lifecycle events, and the error taxonomy.

Everything here is plain data. Behavior (transitions, persistence,
notification) lives in the engine and the container; adapters only ever
see these types through the ports interfaces.
*/
package domain
