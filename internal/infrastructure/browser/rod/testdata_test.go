package rod

// Pages shaped like the demo shop, served by httptest.
const (
	HomeHTML = `<!DOCTYPE html>
<html>
<head><title>Swag Labs</title></head>
<body>
	<div class="login_logo">Swag Labs</div>
</body>
</html>`

	LoginHTML = `<!DOCTYPE html>
<html>
<head><title>Swag Labs</title></head>
<body>
	<form id="login" onsubmit="return false">
		<input id="user-name" class="input_error form_input" type="text" data-test="username" value="prefilled" />
		<input id="password" class="input_error form_input" type="password" data-test="password" />
		<input id="login-button" class="submit-button btn_action" type="submit" value="Login" />
	</form>
</body>
</html>`

	CartHTML = `<!DOCTYPE html>
<html>
<body>
	<button id="add-to-cart-sauce-labs-backpack" class="btn_inventory">Add to cart</button>
	<span id="cart-badge" class="shopping_cart_badge"></span>
	<h3 id="error-message" data-test="error" style="display:none">Epic sadface</h3>
	<script>
		document.getElementById('add-to-cart-sauce-labs-backpack').addEventListener('click', function() {
			document.getElementById('cart-badge').textContent = '1';
		});
	</script>
</body>
</html>`

	InventoryHTML = `<!DOCTYPE html>
<html>
<body>
	<div class="inventory_list">
		<div class="inventory_item">
			<div class="inventory_item_name ">Sauce Labs Backpack</div>
			<div class="inventory_item_price">$29.99</div>
		</div>
		<div class="inventory_item">
			<div class="inventory_item_name ">Sauce Labs Bike Light</div>
			<div class="inventory_item_price">$9.99</div>
		</div>
	</div>
</body>
</html>`
)
