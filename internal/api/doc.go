// Package api exposes the mock CRM store and the health check over JSON HTTP
// endpoints. Successful responses carry {"success": true, "data": ...}; failures
// carry {"success": false, "error": ...}.
package api
