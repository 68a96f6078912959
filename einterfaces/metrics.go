// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package einterfaces

type MetricsInterface interface {
	StartServer()
	StopServer()

	IncrementChatCacheRefreshCounter(cacheName string)
	IncrementFloodRejectedCounter(operation string)

	ObserveApiEndpointDuration(endpoint string, method string, elapsed float64)
}
