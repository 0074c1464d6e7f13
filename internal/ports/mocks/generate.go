//go:generate mockgen -source=../orders_gateway.go    -destination=./mock_orders_gateway.go    -package=mocks
//go:generate mockgen -source=../orders_repository.go -destination=./mock_orders_repository.go -package=mocks
//go:generate mockgen -source=../resource_selector.go -destination=./mock_resource_selector.go -package=mocks
//go:generate mockgen -source=../order_store.go       -destination=./mock_order_store.go       -package=mocks
//go:generate mockgen -source=../http_client.go       -destination=./mock_http_client.go       -package=mocks
//go:generate mockgen -source=../validator.go         -destination=./mock_validator.go         -package=mocks
//go:generate mockgen -source=../logger.go            -destination=./mock_logger.go            -package=mocks
//go:generate mockgen -source=../message_consumer.go  -destination=./mock_message_consumer.go  -package=mocks

package mocks
